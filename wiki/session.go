package wiki

import (
	"fmt"
	"slices"

	"github.com/danielledeleo/wikirefs/extensions"
)

// Session is the state of one top-level render and every nested render its
// embeds trigger. It is carried by the Env of that render and is not safe
// for concurrent use.
type Session struct {
	env   *extensions.Env
	stack []string
	refs  []Ref
}

// NewSession returns a session with its own Env.
func NewSession() *Session {
	s := &Session{}
	s.env = extensions.NewEnv(s)
	return s
}

// SessionOf returns the session carried by env, or nil.
func SessionOf(env *extensions.Env) *Session {
	if env == nil {
		return nil
	}
	s, _ := env.Value.(*Session)
	return s
}

// Env returns the Env to thread through renders of this session.
func (s *Session) Env() *extensions.Env {
	return s.env
}

// Enter pushes filename onto the render stack. It returns ErrCycle when
// filename is already being rendered.
func (s *Session) Enter(filename string) error {
	if s.Contains(filename) {
		return fmt.Errorf("%w: %s", ErrCycle, s.path(filename))
	}
	s.stack = append(s.stack, filename)
	return nil
}

// Leave pops the innermost document.
func (s *Session) Leave() {
	if len(s.stack) > 0 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// Contains reports whether filename is on the render stack.
func (s *Session) Contains(filename string) bool {
	return slices.Contains(s.stack, filename)
}

// Nested reports whether the current render was triggered by an embed.
func (s *Session) Nested() bool {
	return len(s.stack) > 1
}

// Reset drops the collected references.
func (s *Session) Reset() {
	s.refs = nil
}

// Refs returns the references collected from the top-level document.
func (s *Session) Refs() []Ref {
	return slices.Clone(s.refs)
}

func (s *Session) add(ref Ref) {
	if s.Nested() {
		return
	}
	s.refs = append(s.refs, ref)
}

func (s *Session) path(filename string) string {
	path := ""
	for _, f := range s.stack {
		path += f + " -> "
	}
	return path + filename
}
