package translate

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

type fakeTranslator struct {
	out   string
	err   error
	calls int
}

func (f *fakeTranslator) Translate(_ context.Context, text, source, target string) (string, error) {
	f.calls++
	return f.out, f.err
}

func TestBestEffort_Translate_OK(t *testing.T) {
	b := New(&fakeTranslator{out: "xin chào"}, "en", "vi")
	assert.Equal(t, "xin chào", b.Translate(context.Background(), "hello"))
}

func TestBestEffort_Translate_DegradesOnError(t *testing.T) {
	b := New(&fakeTranslator{err: eris.New("quota exhausted")}, "en", "vi")
	assert.Equal(t, "hello", b.Translate(context.Background(), "hello"))
}

func TestBestEffort_Translate_SkipsBlankInput(t *testing.T) {
	f := &fakeTranslator{out: "something"}
	b := New(f, "en", "vi")
	assert.Equal(t, "  ", b.Translate(context.Background(), "  "))
	assert.Zero(t, f.calls, "blank input never reaches the service")
}
