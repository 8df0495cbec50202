package classify

import (
	"fmt"
	"strings"

	"word-styler/internal/config"
	"word-styler/internal/extract"
)

const (
	contextRunes = 500
	startOfDoc   = "INÍCIO DO DOCUMENTO"
	endOfDoc     = "FIM DO DOCUMENTO"
	NoneMarker   = "[[NONE]]"
)

const systemRules = `Você é um assistente especialista em formatação de documentos. Sua única tarefa é classificar um parágrafo.
REGRAS RÍGIDAS:
1. Responda APENAS com o marcador de estilo (ex: ` + "`[[ENUNCIADO]]`" + `).
2. NÃO inclua explicações nem qualquer outro texto.
3. Se o parágrafo for APENAS uma imagem, use o estilo de imagem.
4. Um parágrafo que começa com letra de alternativa (ex: "A)", "b)") e contém imagem continua sendo alternativa.
5. Itens de lista (marcadores ou numeração) recebem o estilo de conteúdo geral, a menos que claramente pertençam a outro estilo.
6. Use o contexto para decidir: se o parágrafo ATUAL for "Estudos 1 a 10" e o ANTERIOR for "Simulado 1", o ATUAL é um subtítulo.
7. Se nenhum estilo se aplicar, responda ` + "`" + NoneMarker + "`" + `.

ESTILOS DISPONÍVEIS:
`

func systemPrompt(tax config.Taxonomy) string {
	var b strings.Builder
	b.WriteString(systemRules)
	for _, s := range tax.Styles {
		fmt.Fprintf(&b, "- `%s`: %s\n", s.Marker, strings.TrimSpace(s.Prompt))
	}
	for _, r := range tax.Removals {
		prompt := strings.TrimSpace(r.Prompt)
		fmt.Fprintf(&b, "- `%s`: %s (apenas início da seção)\n", r.StartMarker, prompt)
		fmt.Fprintf(&b, "- `%s`: %s (apenas fim da seção)\n", r.EndMarker, prompt)
	}
	return b.String()
}

func userPrompt(elements []extract.Element, i int) string {
	prev, next := startOfDoc, endOfDoc
	if i > 0 {
		prev = clip(elements[i-1].Text, contextRunes)
	}
	if i < len(elements)-1 {
		next = clip(elements[i+1].Text, contextRunes)
	}
	el := elements[i]

	var b strings.Builder
	fmt.Fprintf(&b, "CONTEXTO ANTERIOR: \"\"\"%s\"\"\"\n", prev)
	fmt.Fprintf(&b, "PARÁGRAFO ATUAL PARA CLASSIFICAR: \"\"\"%s\"\"\"\n", el.Text)
	if el.IsImageOnly {
		b.WriteString("(AVISO: Este parágrafo contém apenas uma imagem e nenhum texto.)\n")
	}
	if el.IsListItem {
		fmt.Fprintf(&b, "(AVISO: Este é um item de lista do tipo: %s)\n", el.ListType)
	}
	fmt.Fprintf(&b, "CONTEXTO POSTERIOR: \"\"\"%s\"\"\"\n\n", next)
	b.WriteString("Qual é o marcador para o PARÁGRAFO ATUAL?")
	return b.String()
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// normalizeAnswer reduces a raw reply to a known marker, or NoneMarker.
func normalizeAnswer(raw string, known map[string]struct{}) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.Trim(strings.TrimSpace(s), "`\"' ")
	if _, ok := known[s]; ok {
		return s
	}
	return NoneMarker
}
