package split

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"word-styler/internal/config"
)

type Role int

const (
	Question Role = iota
	Answer
)

func (r Role) String() string {
	if r == Answer {
		return "answer"
	}
	return "question"
}

var answerKeywords = []string{"gabarito", "resposta", "answer"}

// paragraphView is what the predicates see of one source paragraph.
type paragraphView struct {
	Text      string
	StyleName string
	Markers   []string
}

type verdict struct {
	role  Role
	rule  string
	fired bool
}

type predicate struct {
	name string
	fn   func(v paragraphView, tax config.Taxonomy) (Role, bool)
}

// roleChain is evaluated in order; the first predicate that fires decides.
var roleChain = []predicate{
	{"marker", byMarker},
	{"paragraph_style", byParagraphStyle},
	{"prompt_keywords", byPromptKeywords},
	{"default", func(paragraphView, config.Taxonomy) (Role, bool) { return Question, true }},
}

// fallbackChain is used when the document has no section titles.
var fallbackChain = []predicate{
	{"marker", byMarker},
	{"answer_text", byAnswerText},
	{"default", func(paragraphView, config.Taxonomy) (Role, bool) { return Question, true }},
}

func decide(chain []predicate, v paragraphView, tax config.Taxonomy) verdict {
	for _, p := range chain {
		if role, ok := p.fn(v, tax); ok {
			return verdict{role: role, rule: p.name, fired: true}
		}
	}
	return verdict{role: Question, rule: "default"}
}

func isAnswerName(s string) bool {
	s = fold(s)
	for _, k := range answerKeywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func byMarker(v paragraphView, tax config.Taxonomy) (Role, bool) {
	for _, m := range v.Markers {
		if rule, ok := tax.StyleFor(m); ok && isAnswerName(rule.Name) {
			return Answer, true
		}
	}
	return Question, false
}

func byParagraphStyle(v paragraphView, _ config.Taxonomy) (Role, bool) {
	if isAnswerName(v.StyleName) {
		return Answer, true
	}
	return Question, false
}

func byPromptKeywords(v paragraphView, tax config.Taxonomy) (Role, bool) {
	text := tokenSet(v.Text)
	if len(text) == 0 {
		return Question, false
	}
	for _, rule := range tax.Styles {
		if isAnswerName(rule.Name) && matchesPrompt(text, rule.Prompt) {
			return Answer, true
		}
	}
	return Question, false
}

var answerText = []*regexp.Regexp{
	regexp.MustCompile(`^[a-h]\d+\s*[–-]`),
	regexp.MustCompile(`^resposta:`),
	regexp.MustCompile(`^gabarito:`),
	regexp.MustCompile(`^alternativa correta:`),
}

func byAnswerText(v paragraphView, _ config.Taxonomy) (Role, bool) {
	t := strings.ToLower(strings.TrimSpace(v.Text))
	for _, re := range answerText {
		if re.MatchString(t) {
			return Answer, true
		}
	}
	return Question, false
}

// matchesPrompt counts prompt keywords present in text. It needs at least
// min(2, keywords/2) hits, and never fewer than one.
func matchesPrompt(text map[string]struct{}, prompt string) bool {
	keywords := tokenSet(prompt)
	if len(keywords) == 0 {
		return false
	}
	need := min(2, len(keywords)/2)
	if need < 1 {
		need = 1
	}
	hits := 0
	for k := range keywords {
		if _, ok := text[k]; ok {
			hits++
			if hits >= need {
				return true
			}
		}
	}
	return false
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// minKeywordRunes drops short function words ("de", "para") from matching.
const minKeywordRunes = 5

func tokenSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range wordPattern.FindAllString(fold(s), -1) {
		if utf8.RuneCountInString(w) >= minKeywordRunes {
			out[w] = struct{}{}
		}
	}
	return out
}

// fold lowercases s and strips diacritics.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
