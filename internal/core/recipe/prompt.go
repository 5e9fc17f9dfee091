package recipe

import (
	"fmt"
	"strings"

	"recipe-matcher/internal/pkg/common"
)

// GenerateRequest 生成食譜的條件
type GenerateRequest struct {
	Ingredients []string `json:"ingredients"`
	Cuisines    []string `json:"cuisines"`
	Dietary     []string `json:"dietary"`
}

const jsonFence = "```json"

const fence = "```"

// BuildPrompt 組合生成食譜的 prompt
func BuildPrompt(req GenerateRequest) string {
	var constraints strings.Builder
	fmt.Fprintf(&constraints, "Ingredients provided: %s\n", joinOrNone(req.Ingredients))
	if len(req.Cuisines) > 0 {
		fmt.Fprintf(&constraints, "Preferred cuisines: %s\n", common.StringSliceToString(req.Cuisines))
	}
	if len(req.Dietary) > 0 {
		fmt.Fprintf(&constraints, "Dietary restrictions (must be respected): %s\n", common.StringSliceToString(req.Dietary))
	}

	return fmt.Sprintf(`You are a creative chef and culinary expert. Your task is to invent a unique and delicious recipe based on a given list of ingredients.

%s
Your response MUST be a single, valid JSON object that follows this exact structure:
%s
{
  "title": "A creative and appealing recipe title",
  "ingredients": ["All ingredients required, including amounts (e.g. '1 cup flour', '2 large eggs')"],
  "instructions": ["A clear step-by-step instruction", "Another step"],
  "cookTime": 30,
  "cuisine": "The most appropriate cuisine (e.g. 'Italian', 'Fusion')",
  "dietary": ["Dietary characteristics if applicable (e.g. 'vegan', 'gluten-free')"],
  "difficulty": "Easy, Medium or Hard"
}
%s

cookTime is the total cook time in minutes as an integer.
Do not include any text or explanation before or after the JSON block.`, constraints.String(), jsonFence, fence)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return common.StringSliceToString(items)
}
