package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"recipe-matcher/internal/pkg/common"
)

// ErrMalformedResponse 生成結果無法解析為食譜
var ErrMalformedResponse = errors.New("malformed generated recipe")

// MalformedResponseError 說明生成結果哪裡不符合格式
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrMalformedResponse, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedResponse, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Is 讓 errors.Is(err, ErrMalformedResponse) 成立
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

func malformed(reason string, err error) error {
	return &MalformedResponseError{Reason: reason, Err: err}
}

// ---------------- 寬鬆版中繼結構：cookTime 可能是數字或字串 ----------------

type looseRecipe struct {
	Title        *string     `json:"title"`
	Ingredients  []string    `json:"ingredients"`
	Instructions []string    `json:"instructions"`
	CookTime     interface{} `json:"cookTime"`
	Cuisine      *string     `json:"cuisine"`
	Dietary      []string    `json:"dietary"`
	Difficulty   *string     `json:"difficulty"`
}

// ExtractJSONBlock 取出 ```json 與下一個 ``` 之間的內容
func ExtractJSONBlock(text string) (string, error) {
	start := strings.Index(text, jsonFence)
	if start == -1 {
		return "", malformed("missing json block opening marker", nil)
	}
	rest := text[start+len(jsonFence):]
	end := strings.Index(rest, fence)
	if end == -1 {
		return "", malformed("missing json block closing marker", nil)
	}
	return strings.TrimSpace(rest[:end]), nil
}

// ParseRecipe 解析生成結果並檢查必要欄位
// 回傳的食譜尚未指定 id 與圖片
func ParseRecipe(text string) (*common.Recipe, error) {
	block, err := ExtractJSONBlock(text)
	if err != nil {
		return nil, err
	}

	var lr looseRecipe
	if err := common.ParseJSON(block, &lr); err != nil {
		// 嚴格解析失敗才嘗試修補
		lr = looseRecipe{}
		if repairErr := common.ParseJSON(common.RepairJSON(block), &lr); repairErr != nil {
			return nil, malformed("invalid json", err)
		}
	}

	return lr.toRecipe()
}

func (lr *looseRecipe) toRecipe() (*common.Recipe, error) {
	if lr.Title == nil || strings.TrimSpace(*lr.Title) == "" {
		return nil, malformed("title is required", nil)
	}
	ingredients := nonEmpty(lr.Ingredients)
	if len(ingredients) == 0 {
		return nil, malformed("ingredients are required", nil)
	}
	instructions := nonEmpty(lr.Instructions)
	if len(instructions) == 0 {
		return nil, malformed("instructions are required", nil)
	}
	cookTime, err := parseCookTime(lr.CookTime)
	if err != nil {
		return nil, malformed("invalid cookTime", err)
	}

	cuisine := "International"
	if lr.Cuisine != nil && strings.TrimSpace(*lr.Cuisine) != "" {
		cuisine = strings.TrimSpace(*lr.Cuisine)
	}

	difficulty := common.DifficultyForCookTime(cookTime)
	if lr.Difficulty != nil && strings.TrimSpace(*lr.Difficulty) != "" {
		d, ok := common.ParseDifficulty(*lr.Difficulty)
		if !ok {
			return nil, malformed(fmt.Sprintf("unknown difficulty %q", *lr.Difficulty), nil)
		}
		difficulty = d
	}

	dietary := nonEmpty(lr.Dietary)
	if dietary == nil {
		dietary = []string{}
	}

	return &common.Recipe{
		Title:        strings.TrimSpace(*lr.Title),
		Ingredients:  ingredients,
		Instructions: instructions,
		CookTime:     cookTime,
		Cuisine:      cuisine,
		Dietary:      dietary,
		Difficulty:   difficulty,
	}, nil
}

var cookTimePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(?:minutes?|mins?)?$`)

// parseCookTime 接受數字或 "30"、"30 minutes" 形式的字串
func parseCookTime(v interface{}) (int, error) {
	var minutes float64
	switch t := v.(type) {
	case nil:
		return 0, fmt.Errorf("cookTime is required")
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, err
		}
		minutes = f
	case string:
		m := cookTimePattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(t)))
		if m == nil {
			return 0, fmt.Errorf("cookTime %q is not a number of minutes", t)
		}
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, err
		}
		minutes = f
	default:
		return 0, fmt.Errorf("cookTime has unsupported type %T", v)
	}

	rounded := int(math.Round(minutes))
	if rounded <= 0 {
		return 0, fmt.Errorf("cookTime must be positive")
	}
	return rounded, nil
}

func nonEmpty(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
