// Package keyword loads per-natural-language keyword tables and resolves
// keyword text to and from KeywordKind, the language-independent keyword
// identifier the lexer consults.
//
// The Catalog replaces the global mutable keyword registry pattern: there
// is no package-level singleton, only an explicitly constructed and
// passed *Catalog with reader/writer discipline (sync.RWMutex), mirroring
// the teacher's util.Stack/util.perror mutex-guarded structs.
package keyword

import (
	"sync"

	"github.com/pkg/errors"
)

// Kind is a symbolic, natural-language-independent keyword identifier.
type Kind int

// The core set every loaded language must define, per spec §4.2.
const (
	Function Kind = iota
	If
	Else
	While
	For
	And
	Or
	Not
	Move
	Borrow
	Inout
	Is

	// Additional, non-core keyword kinds a language table may define.
	Var
	Val
	Struct
	Enum
	Return
	Break
	Continue
	Loop
	Match
	Null
	True
	False
	Print
	In
)

// coreSet lists the keyword kinds every standalone language table must
// define; see ValidateAll.
var coreSet = []Kind{Function, If, Else, While, For, And, Or, Not, Move, Borrow, Inout, Is}

// names gives every Kind a stable, language-independent name used only
// for diagnostics and table parsing (table files spell a Kind by this
// name, not by keyword text).
var names = map[Kind]string{
	Function: "function", If: "if", Else: "else", While: "while", For: "for",
	And: "and", Or: "or", Not: "not", Move: "move", Borrow: "borrow",
	Inout: "inout", Is: "is", Var: "var", Val: "val", Struct: "struct",
	Enum: "enum", Return: "return", Break: "break", Continue: "continue",
	Loop: "loop", Match: "match", Null: "null", True: "true", False: "false",
	Print: "print", In: "in",
}

// String renders the Kind's language-independent name.
func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return "unknown"
}

// language holds one natural language's keyword table plus its reverse
// mapping and descriptive metadata.
type language struct {
	code        string
	name        string
	description string
	forward     map[string]Kind
	reverse     map[Kind]string
	aliases     map[string]string // operator alias text -> canonical operator text
}

// Catalog is the process-wide (but never global) keyword registry. Many
// concurrent readers may call Lookup/TextOf/LookupWithFallback; Load,
// Switch and SetFallback take the exclusive writer lock.
type Catalog struct {
	mu       sync.RWMutex
	langs    map[string]*language
	active   string
	fallback string
}

// New returns an empty Catalog with no languages loaded.
func New() *Catalog {
	return &Catalog{langs: make(map[string]*language)}
}

// Table is the parsed, in-memory form of one keyword table, as produced
// by ParseTable from the external textual format (§6).
type Table struct {
	Code        string
	Name        string
	Description string
	Keywords    map[string]Kind   // keyword text -> Kind
	Aliases     map[string]string // operator alias -> canonical operator text
}

// Load registers an already parsed keyword table under langCode. Loading the
// same code twice replaces the previous table. Load takes the writer
// lock; concurrent Lookup calls from other goroutines block until it
// returns.
func (c *Catalog) Load(langCode string, t Table) error {
	if langCode == "" {
		return errors.New("keyword: empty language code")
	}
	if len(t.Keywords) == 0 {
		return errors.Errorf("keyword: table %q defines no keywords", langCode)
	}

	lang := &language{
		code:        langCode,
		name:        t.Name,
		description: t.Description,
		forward:     make(map[string]Kind, len(t.Keywords)),
		reverse:     make(map[Kind]string, len(t.Keywords)),
		aliases:     make(map[string]string, len(t.Aliases)),
	}
	for text, k := range t.Keywords {
		lang.forward[text] = k
		// First writer for a given Kind wins the canonical reverse
		// spelling; later duplicate spellings of the same Kind are
		// accepted as forward-only aliases so reverse(forward(x)) = x
		// still holds for the canonical spelling.
		if _, exists := lang.reverse[k]; !exists {
			lang.reverse[k] = text
		}
	}
	for alias, canon := range t.Aliases {
		lang.aliases[alias] = canon
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.langs[langCode] = lang
	if c.active == "" {
		c.active = langCode
	}
	return nil
}

// Switch selects the active language. It errors if langCode has not been
// loaded.
func (c *Catalog) Switch(langCode string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.langs[langCode]; !ok {
		return errors.Errorf("keyword: language %q not loaded", langCode)
	}
	c.active = langCode
	return nil
}

// SetFallback selects the strict fallback language consulted by
// LookupWithFallback and TextOf. It errors if langCode has not been
// loaded.
func (c *Catalog) SetFallback(langCode string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.langs[langCode]; !ok {
		return errors.Errorf("keyword: language %q not loaded", langCode)
	}
	c.fallback = langCode
	return nil
}

// Lookup resolves text to a Kind using only the active language.
func (c *Catalog) Lookup(text string) (Kind, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lang, ok := c.langs[c.active]
	if !ok {
		return 0, false
	}
	return lang.lookup(text)
}

// LookupWithFallback resolves text using the active language, then the
// fallback language if the active one has no match.
func (c *Catalog) LookupWithFallback(text string) (Kind, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if lang, ok := c.langs[c.active]; ok {
		if k, ok := lang.lookup(text); ok {
			return k, true
		}
	}
	if lang, ok := c.langs[c.fallback]; ok {
		return lang.lookup(text)
	}
	return 0, false
}

func (lang *language) lookup(text string) (Kind, bool) {
	if k, ok := lang.forward[text]; ok {
		return k, true
	}
	if canon, ok := lang.aliases[text]; ok {
		if k, ok := lang.forward[canon]; ok {
			return k, true
		}
	}
	return 0, false
}

// TextOf returns the canonical spelling of k in the active language,
// falling back to the fallback language.
func (c *Catalog) TextOf(k Kind) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if lang, ok := c.langs[c.active]; ok {
		if text, ok := lang.reverse[k]; ok {
			return text, true
		}
	}
	if lang, ok := c.langs[c.fallback]; ok {
		if text, ok := lang.reverse[k]; ok {
			return text, true
		}
	}
	return "", false
}

// Describe returns the human-readable name and description registered
// for langCode.
func (c *Catalog) Describe(langCode string) (name, description string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lang, ok := c.langs[langCode]
	if !ok {
		return "", "", false
	}
	return lang.name, lang.description, true
}

// ValidateAll succeeds iff every loaded language contains every keyword
// kind in the required core set.
func (c *Catalog) ValidateAll() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for code, lang := range c.langs {
		for _, k := range coreSet {
			if _, ok := lang.reverse[k]; !ok {
				return errors.Errorf("keyword: language %q missing required keyword %q", code, k)
			}
		}
	}
	return nil
}

// Languages returns the language codes currently loaded.
func (c *Catalog) Languages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.langs))
	for code := range c.langs {
		out = append(out, code)
	}
	return out
}
