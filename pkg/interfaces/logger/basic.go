package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Basic prints log lines using fmt.Fprintf. It is meant for examples and
// development, not as a production sink.
type Basic struct {
	mu     *sync.Mutex
	out    io.Writer
	fields []Field
}

var _ Logger = (*Basic)(nil)

// New returns a basic logger that writes to stdout.
func New() *Basic {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter returns a basic logger writing to the given sink.
func NewWithWriter(out io.Writer) *Basic {
	return &Basic{mu: &sync.Mutex{}, out: out}
}

// With returns a logger that includes the fields on every line.
func (l *Basic) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	next := &Basic{mu: l.mu, out: l.out}
	next.fields = append(append([]Field{}, l.fields...), fields...)
	return next
}

func (l *Basic) Debug(msg string, fields ...Field) { l.log("DEBUG", msg, fields...) }
func (l *Basic) Info(msg string, fields ...Field)  { l.log("INFO", msg, fields...) }
func (l *Basic) Warn(msg string, fields ...Field)  { l.log("WARN", msg, fields...) }
func (l *Basic) Error(msg string, fields ...Field) { l.log("ERROR", msg, fields...) }

func (l *Basic) log(level, msg string, fields ...Field) {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for _, f := range l.fields {
		merged[f.Key] = f.Value
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, merged[k])
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s %-5s %s%s\n", time.Now().Format(time.RFC3339), level, msg, b.String())
}
