package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type Logger struct {
	mu       sync.Mutex
	human    io.Writer
	ndjson   io.Writer
	verbose  bool
	onceKeys map[string]struct{}
}

type Event struct {
	TS         string  `json:"ts"`
	Level      string  `json:"level"`
	Event      string  `json:"event"`
	Input      string  `json:"input,omitempty"`
	Stage      string  `json:"stage,omitempty"`
	Provider   string  `json:"provider,omitempty"`
	Model      string  `json:"model,omitempty"`
	Paragraph  int     `json:"paragraph,omitempty"`
	Element    int     `json:"element,omitempty"`
	Marker     string  `json:"marker,omitempty"`
	Style      string  `json:"style,omitempty"`
	Count      int     `json:"count,omitempty"`
	Total      int     `json:"total,omitempty"`
	Attempt    int     `json:"attempt,omitempty"`
	WaitMS     int64   `json:"wait_ms,omitempty"`
	LatencyMS  int64   `json:"latency_ms,omitempty"`
	CostUSD    float64 `json:"cost_usd,omitempty"`
	OutputFile string  `json:"output_file,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// New builds a logger. With ndjson set, stdout receives raw NDJSON events;
// otherwise it receives short human-readable lines. The log file, when
// given, always receives NDJSON.
func New(stdout io.Writer, logFile string, ndjson, verbose bool) (*Logger, io.Closer, error) {
	l := &Logger{verbose: verbose, onceKeys: map[string]struct{}{}}
	if ndjson {
		l.ndjson = stdout
	} else {
		l.human = stdout
	}
	if logFile == "" {
		return l, nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	if l.ndjson != nil {
		l.ndjson = io.MultiWriter(l.ndjson, f)
	} else {
		l.ndjson = f
	}
	return l, f, nil
}

func (l *Logger) Verbose() bool {
	return l != nil && l.verbose
}

func (l *Logger) Emit(ev Event) {
	if l == nil {
		return
	}
	if ev.TS == "" {
		ev.TS = time.Now().Format(time.RFC3339Nano)
	}
	if ev.Level == "" {
		ev.Level = "info"
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ndjson != nil {
		if b, err := json.Marshal(ev); err == nil {
			_, _ = l.ndjson.Write(append(b, '\n'))
		}
	}
	if l.human == nil {
		return
	}
	if ev.Level == "debug" && !l.verbose {
		return
	}
	if line := l.formatHuman(ev); line != "" {
		_, _ = io.WriteString(l.human, line+"\n")
	}
}

func (l *Logger) formatHuman(ev Event) string {
	name := filepath.Base(ev.Input)
	switch ev.Event {
	case "startup":
		return fmt.Sprintf("iniciando: provedor %s, modelo %s", fallback(ev.Provider, "-"), fallback(ev.Model, "-"))
	case "config_loaded":
		return l.onceLine("config_loaded", "configuração carregada: "+fallback(ev.OutputFile, "-"))
	case "scan_warning":
		return "aviso de varredura: " + ev.Error
	case "document_opened":
		return fmt.Sprintf("%s: %d parágrafos, %d tabelas", name, ev.Count, ev.Total)
	case "extract_done":
		return fmt.Sprintf("%s: %d elementos extraídos (%d divisões)", name, ev.Total, ev.Count)
	case "classify_start":
		return l.onceLine("classify_start:"+ev.Input, fmt.Sprintf("%s: classificando %d elementos com %s", name, ev.Total, fallback(ev.Model, ev.Provider)))
	case "classify_progress":
		return fmt.Sprintf("%s: %d/%d classificados", name, ev.Count, ev.Total)
	case "classify_degraded":
		return fmt.Sprintf("%s: elemento %d sem classificação (%s)", name, ev.Element, ev.Error)
	case "classify_done":
		return fmt.Sprintf("%s: %d/%d marcados, custo estimado US$ %.4f, %s", name, ev.Count, ev.Total, ev.CostUSD, formatHumanDurationMS(ev.LatencyMS))
	case "retry_backoff":
		return fmt.Sprintf("nova tentativa %d em %s: %s", ev.Attempt, formatHumanDurationMS(ev.WaitMS), ev.Error)
	case "style_created":
		return fmt.Sprintf("%s: estilo criado %s", name, ev.Style)
	case "style_updated":
		return fmt.Sprintf("%s: estilo atualizado %s", name, ev.Style)
	case "style_failed":
		return fmt.Sprintf("%s: falha no estilo %s: %s", name, ev.Style, ev.Error)
	case "style_applied":
		return fmt.Sprintf("%s: parágrafo %d -> %s", name, ev.Paragraph, ev.Style)
	case "style_missing":
		return fmt.Sprintf("%s: estilo %s não encontrado (parágrafo %d)", name, ev.Style, ev.Paragraph)
	case "styles_done":
		return fmt.Sprintf("%s: %d parágrafos estilizados", name, ev.Count)
	case "removal_rejected":
		return fmt.Sprintf("%s: remoção %s ignorada: %s", name, ev.Marker, ev.Error)
	case "removal_done":
		return fmt.Sprintf("%s: %d elementos removidos", name, ev.Count)
	case "sanitize_done":
		return fmt.Sprintf("%s: formatação manual limpa em %d trechos", name, ev.Count)
	case "split_section":
		return fmt.Sprintf("%s: simulado %s com %d parágrafos", name, ev.Marker, ev.Count)
	case "split_fallback":
		return fmt.Sprintf("%s: nenhum título de simulado, dividindo o documento inteiro", name)
	case "write_ok":
		return "gravado: " + ev.OutputFile
	case "write_failed":
		return fmt.Sprintf("falha ao gravar %s: %s", fallback(ev.OutputFile, name), ev.Error)
	case "history_saved":
		return l.onceLine("history_saved", "histórico registrado")
	case "history_failed":
		return "histórico indisponível: " + ev.Error
	case "stage_failed":
		return fmt.Sprintf("%s: falha na etapa %s: %s", name, fallback(ev.Stage, "unknown"), ev.Error)
	case "finished":
		return fmt.Sprintf("concluído: %d ok, %d falhas, %s", ev.Count, ev.Total-ev.Count, formatHumanDurationMS(ev.LatencyMS))
	}
	return ""
}

func (l *Logger) onceLine(key, line string) string {
	if l.onceKeys == nil {
		l.onceKeys = map[string]struct{}{}
	}
	if _, ok := l.onceKeys[key]; ok {
		return ""
	}
	l.onceKeys[key] = struct{}{}
	return line
}

func formatHumanDurationMS(ms int64) string {
	if ms <= 0 {
		return "0ms"
	}
	d := time.Duration(ms) * time.Millisecond
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", ms)
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	default:
		m := int(d / time.Minute)
		s := int((d % time.Minute) / time.Second)
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	}
}

func fallback(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
