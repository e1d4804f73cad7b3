// Package typeset converts TeX expressions to MathML. Conversions run
// asynchronously and are memoized by normalized TeX and display mode.
package typeset

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/wyatt915/treeblood"
	"golang.org/x/text/unicode/norm"
)

// ErrUnavailable is returned when no typesetting backend is configured.
var ErrUnavailable = errors.New("math typesetting unavailable")

// Backend converts single TeX expression to MathML.
type Backend interface {
	Typeset(ctx context.Context, tex string, display bool) (string, error)
}

// Treeblood is pure Go TeX to MathML backend.
type Treeblood struct {
	// converter keeps macro state and is not safe for concurrent use
	mu   sync.Mutex
	pitz *treeblood.Pitziil
}

func NewTreeblood(macros map[string]string) *Treeblood {
	return &Treeblood{pitz: treeblood.NewDocument(macros, false)}
}

func (t *Treeblood) Typeset(ctx context.Context, tex string, display bool) (mathml string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("typeset panic: %v", r)
		}
	}()
	if display {
		mathml, err = t.pitz.DisplayStyle(tex)
	} else {
		mathml, err = t.pitz.TextStyle(tex)
	}
	if err != nil {
		return "", fmt.Errorf("unable to typeset %q: %w", tex, err)
	}
	return mathml, nil
}

// Key identifies memoized conversion.
type Key struct {
	TeX     string
	Display bool
}

// NewKey normalizes TeX: NFC, surrounding space trimmed, inner whitespace
// runs collapsed.
func NewKey(tex string, display bool) Key {
	return Key{TeX: strings.Join(strings.Fields(norm.NFC.String(tex)), " "), Display: display}
}
