package account

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

//go:embed common_passwords.txt
var commonPasswordsRaw string

var nonWord = regexp.MustCompile(`\W+`)

// Attr 参与相似度比较的用户属性
type Attr struct {
	Name  string
	Value string
}

type PasswordPolicy struct {
	MinLength     int
	MaxSimilarity float64
	common        map[string]struct{}
}

func NewPasswordPolicy(minLength int, maxSimilarity float64) PasswordPolicy {
	if minLength <= 0 {
		minLength = 8
	}
	if maxSimilarity <= 0 {
		maxSimilarity = 0.7
	}
	common := make(map[string]struct{})
	for _, line := range strings.Split(commonPasswordsRaw, "\n") {
		if w := strings.TrimSpace(strings.ToLower(line)); w != "" {
			common[w] = struct{}{}
		}
	}
	return PasswordPolicy{MinLength: minLength, MaxSimilarity: maxSimilarity, common: common}
}

func DefaultPasswordPolicy() PasswordPolicy { return NewPasswordPolicy(8, 0.7) }

// Check 返回全部未通过的规则提示，空切片表示通过
func (p PasswordPolicy) Check(password string, attrs ...Attr) []string {
	var msgs []string
	for _, a := range attrs {
		if p.tooSimilar(password, a.Value) {
			msgs = append(msgs, fmt.Sprintf("The password is too similar to the %s.", a.Name))
			break
		}
	}
	if n := len([]rune(password)); n < p.MinLength {
		msgs = append(msgs, fmt.Sprintf("This password is too short. It must contain at least %d characters.", p.MinLength))
	}
	if _, ok := p.common[strings.ToLower(strings.TrimSpace(password))]; ok {
		msgs = append(msgs, "This password is too common.")
	}
	if isNumeric(password) {
		msgs = append(msgs, "This password is entirely numeric.")
	}
	return msgs
}

func (p PasswordPolicy) tooSimilar(password, value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return false
	}
	pw := strings.ToLower(password)
	parts := append(nonWord.Split(value, -1), value)
	for _, part := range parts {
		if part == "" || p.lengthRuledOut(pw, part) {
			continue
		}
		if quickRatio(pw, part) >= p.MaxSimilarity {
			return true
		}
	}
	return false
}

// 密码远长于属性值时不可能达到阈值，直接跳过
func (p PasswordPolicy) lengthRuledOut(password, value string) bool {
	pl, vl := len([]rune(password)), len([]rune(value))
	return pl >= 10*vl && float64(vl) < p.MaxSimilarity/2*float64(pl)
}

// quickRatio 按字符多重集交集计算相似度上界：2*M/T
func quickRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	avail := make(map[rune]int, len(rb))
	for _, r := range rb {
		avail[r]++
	}
	matches := 0
	for _, r := range ra {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(total)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
