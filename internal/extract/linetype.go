package extract

import (
	"regexp"
	"strings"
)

type LineType string

const (
	LineQuestion    LineType = "question"
	LineAlternative LineType = "alternative"
	LineAnswer      LineType = "answer"
	LineTitle       LineType = "title"
	LineSubtitle    LineType = "subtitle"
	LineText        LineType = "text"
)

type lineFamily struct {
	kind     LineType
	patterns []*regexp.Regexp
}

func mustAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+e))
	}
	return out
}

// Families are tried in order; the first one with a matching pattern wins.
var lineFamilies = []lineFamily{
	{kind: LineQuestion, patterns: mustAll(`^\d+[.)]\s`, `^\d+\s*[-–]\s`, `^Questão\s+\d+`, `^Q\d+[.)]\s`)},
	{kind: LineAlternative, patterns: mustAll(`^[a-e][.)]\s`, `^\([a-e]\)`, `^[a-e]\s*[-–]\s`, `^[a-e]\s`)},
	{kind: LineAnswer, patterns: mustAll(`^Resposta:`, `^Gabarito:`, `^Alternativa correta:`, `^[a-e]\d+\s*[-–]`, `^GABARITO`)},
	{kind: LineTitle, patterns: mustAll(`^Simulado\s+\d+`, `^Prova\s+\d+`, `^Teste\s+\d+`)},
	{kind: LineSubtitle, patterns: mustAll(`^Estudos\s+\d+`, `^Parte\s+[IVX]+`, `^Seção\s+\d+`)},
}

func ClassifyLine(line string) LineType {
	line = strings.TrimSpace(line)
	for _, fam := range lineFamilies {
		for _, re := range fam.patterns {
			if re.MatchString(line) {
				return fam.kind
			}
		}
	}
	return LineText
}

type splitVerdict struct {
	split bool
	rule  string
}

type splitRule struct {
	name   string
	decide func(lines []string, types []LineType) (splitVerdict, bool)
}

// splitRules decide whether a paragraph made of several visual lines is
// really several logical units. The first rule that is decisive wins.
var splitRules = []splitRule{
	{name: "single_line", decide: func(lines []string, _ []LineType) (splitVerdict, bool) {
		return splitVerdict{split: false}, len(lines) < 2
	}},
	{name: "uniform_non_alternative", decide: func(_ []string, types []LineType) (splitVerdict, bool) {
		if distinct(types) == 1 && types[0] != LineAlternative {
			return splitVerdict{split: false}, true
		}
		return splitVerdict{}, false
	}},
	{name: "mixed_types", decide: func(_ []string, types []LineType) (splitVerdict, bool) {
		return splitVerdict{split: true}, distinct(types) > 1
	}},
	{name: "alternatives", decide: func(lines []string, types []LineType) (splitVerdict, bool) {
		if distinct(types) == 1 && types[0] == LineAlternative && len(lines) > 1 {
			return splitVerdict{split: true}, true
		}
		return splitVerdict{}, false
	}},
	{name: "distinct_openings", decide: func(lines []string, _ []LineType) (splitVerdict, bool) {
		n := len(lines)
		if n > 3 {
			n = 3
		}
		seen := map[string]struct{}{}
		for _, l := range lines[:n] {
			fields := strings.Fields(l)
			if len(fields) == 0 {
				continue
			}
			seen[fields[0]] = struct{}{}
		}
		return splitVerdict{split: true}, len(seen) == n
	}},
}

func shouldSplit(lines []string) splitVerdict {
	types := make([]LineType, len(lines))
	for i, l := range lines {
		types[i] = ClassifyLine(l)
	}
	for _, r := range splitRules {
		if v, ok := r.decide(lines, types); ok {
			v.rule = r.name
			return v
		}
	}
	return splitVerdict{split: false, rule: "default"}
}

func distinct(types []LineType) int {
	seen := map[LineType]struct{}{}
	for _, t := range types {
		seen[t] = struct{}{}
	}
	return len(seen)
}

func nonEmptyLines(text string) []string {
	out := []string{}
	for _, l := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			out = append(out, t)
		}
	}
	return out
}
