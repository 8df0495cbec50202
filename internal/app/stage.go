package app

import (
	"errors"
	"fmt"
	"strings"
)

type Stage string

const (
	StageReading      Stage = "reading"
	StageAIProcessing Stage = "ai_processing"
	StageStyling      Stage = "styling"
	StageRemoval      Stage = "removal"
	StageSplitting    Stage = "splitting"
	StageSaving       Stage = "saving"
	StageUnknown      Stage = "unknown"
)

var ErrNoElements = errors.New("nenhum elemento encontrado no documento")

// StageError is the failure of one document: the stage it stopped at and a
// hint for the user.
type StageError struct {
	Stage      Stage
	Err        error
	Suggestion string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("etapa %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// stageFailure wraps err with stage, inferring the stage from the message
// when none is given.
func stageFailure(stage Stage, err error) *StageError {
	if stage == "" {
		stage = identifyStage(err.Error())
	}
	return &StageError{Stage: stage, Err: err, Suggestion: suggestionFor(err.Error())}
}

type keywordRule[T any] struct {
	keywords []string
	value    T
}

var stageRules = []keywordRule[Stage]{
	{[]string{"lendo documento"}, StageReading},
	{[]string{"api", "openai"}, StageAIProcessing},
	{[]string{"estilo"}, StageStyling},
	{[]string{"remoção"}, StageRemoval},
	{[]string{"simulado"}, StageSplitting},
	{[]string{"arquivo", "salvar"}, StageSaving},
}

var suggestionRules = []keywordRule[string]{
	{[]string{"api key", "unauthorized"}, "Verifique se a API Key está correta e tem créditos disponíveis."},
	{[]string{"rate limit", "429"}, "Limite de requisições atingido. Aguarde alguns minutos e tente novamente."},
	{[]string{"timeout", "deadline exceeded"}, "Tempo limite excedido. Tente com um documento menor ou verifique sua conexão."},
	{[]string{"marcação", "nenhum elemento"}, "Verifique se os prompts de identificação estão corretos para o tipo de documento."},
	{[]string{"arquivo", "corrompido"}, "Verifique se o arquivo .docx é válido e não está corrompido."},
	{[]string{"memória", "memory"}, "Documento muito grande. Tente processar em partes menores."},
}

const defaultSuggestion = "Verifique os logs detalhados e tente novamente."

func identifyStage(msg string) Stage {
	return matchKeywords(stageRules, msg, StageUnknown)
}

func suggestionFor(msg string) string {
	return matchKeywords(suggestionRules, msg, defaultSuggestion)
}

func matchKeywords[T any](rules []keywordRule[T], msg string, def T) T {
	msg = strings.ToLower(msg)
	for _, r := range rules {
		for _, k := range r.keywords {
			if strings.Contains(msg, k) {
				return r.value
			}
		}
	}
	return def
}
