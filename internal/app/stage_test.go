package app

import (
	"errors"
	"strings"
	"testing"
)

func TestIdentifyStage(t *testing.T) {
	cases := map[string]Stage{
		"lendo documento x.docx: zip: not a valid zip file": StageReading,
		"OpenAI HTTP 500":                  StageAIProcessing,
		"estilo Heading 9 inexistente":     StageStyling,
		"falha na remoção do intervalo":    StageRemoval,
		"falha ao montar simulado 2":       StageSplitting,
		"falha ao salvar arquivo completo": StageSaving,
		"algo completamente diferente":     StageUnknown,
	}
	for msg, want := range cases {
		if got := identifyStage(msg); got != want {
			t.Fatalf("%q => %s, want %s", msg, got, want)
		}
	}
}

func TestSuggestionFor(t *testing.T) {
	cases := map[string]string{
		"HTTP 401 Unauthorized":       "API Key",
		"429 rate limit":              "Limite de requisições",
		"context deadline exceeded":   "Tempo limite",
		"nenhum elemento foi marcado": "prompts de identificação",
		"arquivo corrompido":          ".docx é válido",
		"out of memory":               "muito grande",
		"erro sem categoria":          "logs detalhados",
	}
	for msg, want := range cases {
		if got := suggestionFor(msg); !strings.Contains(got, want) {
			t.Fatalf("%q => %q, want substring %q", msg, got, want)
		}
	}
}

func TestStageErrorWrapsCause(t *testing.T) {
	se := stageFailure(StageSaving, ErrNoElements)
	if !errors.Is(se, ErrNoElements) {
		t.Fatalf("StageError must unwrap to its cause")
	}
	if se.Error() != "etapa saving: "+ErrNoElements.Error() {
		t.Fatalf("unexpected message: %s", se.Error())
	}
	inferred := stageFailure("", errors.New("lendo documento a.docx: ruim"))
	if inferred.Stage != StageReading {
		t.Fatalf("expected inferred reading stage, got %s", inferred.Stage)
	}
}
