package tqw

// File encode.go converts decoded world documents into TQW 'DATA'
// format text. The emission order and the blank-line rhythm between
// tables are part of the format contract and must not change; the
// engine's reader tolerates variation, but downstream diffs of
// converted files do not.

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/tqwconv/internal/worldjson"
)

// BlockWidth is the column that text inside multi-line string blocks is
// re-flowed to.
const BlockWidth = 120

// Encoder writes a TQW 'DATA' document for a decoded world definition.
// It is single-use; create one per document.
type Encoder struct {
	w    *bufio.Writer
	warn io.Writer
	err  error
}

// NewEncoder creates an Encoder that writes the document to w and
// non-fatal diagnostics to warn. A nil warn discards diagnostics.
func NewEncoder(w io.Writer, warn io.Writer) *Encoder {
	if warn == nil {
		warn = io.Discard
	}
	return &Encoder{w: bufio.NewWriter(w), warn: warn}
}

// EncodeWorld writes the complete TQW rendition of doc: the format
// preamble, the world table, all rooms with their exits and items, the
// named pronoun sets, and all NPCs. Input order is preserved for every
// list in the document.
func (enc *Encoder) EncodeWorld(doc worldjson.Document) error {
	enc.preamble()
	enc.world(doc)

	for _, r := range doc.Rooms {
		enc.room(r)
	}

	enc.pronounTable(doc.Pronouns)

	for _, n := range doc.NPCs {
		enc.npc(n)
	}

	if enc.err != nil {
		return enc.err
	}
	return enc.w.Flush()
}

// line writes one output line. Write errors stick; once one occurs all
// further emission is skipped and EncodeWorld returns it.
func (enc *Encoder) line(format string, a ...interface{}) {
	if enc.err != nil {
		return
	}
	_, enc.err = fmt.Fprintf(enc.w, format+"\n", a...)
}

// block emits key followed by a triple-quoted block: the opening
// delimiter, text re-flowed to BlockWidth, and the closing delimiter on
// its own line. Words are regrouped into lines no longer than
// BlockWidth without ever splitting a word; original line breaks are
// not preserved. Empty or all-space text produces an empty block.
func (enc *Encoder) block(key string, text string) {
	enc.line("%s = '''", key)

	for _, ln := range reflow(text, BlockWidth) {
		enc.line("%s", ln)
	}

	enc.line("'''")
}

// reflow regroups the words of text into lines no longer than width.
// Output must contain exactly the input's words and nothing else, so a
// single word longer than width gets an over-width line to itself
// rather than being broken apart.
func reflow(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	// rosed breaks over-width words by inserting a hyphen, which would
	// put a character in the output that is not in the input; such
	// blocks are filled greedily instead
	for _, word := range words {
		if len(word) > width {
			return fillLines(words, width)
		}
	}

	wrapped := rosed.Edit(text).Wrap(width).String()
	wrapped = strings.TrimRight(wrapped, "\n")
	return strings.Split(wrapped, "\n")
}

// fillLines greedily packs words into lines of at most width, keeping
// each word whole even when it alone is over width.
func fillLines(words []string, width int) []string {
	var lines []string
	var cur strings.Builder

	for _, word := range words {
		if cur.Len() == 0 {
			cur.WriteString(word)
			continue
		}

		if cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(word)
			continue
		}

		cur.WriteString(" ")
		cur.WriteString(word)
	}

	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}

	return lines
}

func (enc *Encoder) preamble() {
	enc.line("format = %s", Quoted(FormatName))
	enc.line("type = %s", Quoted(TypeWorldData))
	enc.line("")
}

func (enc *Encoder) world(doc worldjson.Document) {
	enc.line("[world]")

	if doc.Start != nil {
		enc.line("start = %s", Quoted(string(*doc.Start)))
	} else {
		fmt.Fprintln(enc.warn, "WARN: input is missing key 'start'; world.start will be undefined in output")
		enc.line(`start = ""`)
	}

	enc.line("")
	enc.line("")
}

func (enc *Encoder) room(r worldjson.Room) {
	enc.line("# %s", strings.ToLower(string(r.Label)))
	enc.line("[[rooms]]")
	enc.line("label = %s", Quoted(string(r.Label)))
	enc.line("name = %s", Quoted(string(r.Name)))
	enc.block("description", string(r.Description))
	enc.line("")

	for _, eg := range r.Exits {
		enc.line("[[rooms.exits]]")
		enc.line("aliases = %s", InlineList(eg.Aliases.Strings()))
		enc.line("destLabel = %s", Quoted(string(eg.DestLabel)))
		enc.line("description = %s", Quoted(string(eg.Description)))
		enc.block("travelMessage", string(eg.TravelMessage))
		enc.line("")
	}

	for _, it := range r.Items {
		enc.line("[[rooms.items]]")
		enc.line("label = %s", Quoted(string(it.Label)))
		enc.line("aliases = %s", InlineList(it.Aliases.Strings()))
		enc.line("name = %s", Quoted(string(it.Name)))
		enc.block("description", string(it.Description))
		enc.line("")
	}

	enc.line("")
}

func (enc *Encoder) pronounTable(tbl *worldjson.PronounTable) {
	if tbl.Len() < 1 {
		return
	}

	for _, name := range tbl.Names() {
		enc.line("[pronouns.%s]", Quoted(name))
		enc.pronounFields(tbl.Get(name))
		enc.line("")
	}

	enc.line("")
}

func (enc *Encoder) pronounFields(ps worldjson.PronounSet) {
	enc.line("nominative = %s", Quoted(string(ps.Nominative)))
	enc.line("objective = %s", Quoted(string(ps.Objective)))
	enc.line("possessive = %s", Quoted(string(ps.Possessive)))
	enc.line("determiner = %s", Quoted(string(ps.Determiner)))
	enc.line("reflexive = %s", Quoted(string(ps.Reflexive)))
}

func (enc *Encoder) npc(n worldjson.NPC) {
	enc.line("[[npcs]]")
	enc.line("label = %s", Quoted(string(n.Label)))
	enc.line("aliases = %s", MultilineList(n.Aliases.Strings()))
	enc.line("name = %s", Quoted(string(n.Name)))
	enc.line("start = %s", Quoted(string(n.Start)))

	// a named reference goes inline here; an inline set becomes its own
	// table and has to wait until after the description block, else it
	// would capture the description key
	if n.Pronouns.Kind == worldjson.PronounsNamed {
		enc.line("pronouns = %s", Quoted(string(n.Pronouns.Name)))
	}

	enc.block("description", string(n.Description))
	enc.line("")

	if n.Pronouns.Kind == worldjson.PronounsInline {
		enc.line("[npcs.pronouns]")
		enc.pronounFields(n.Pronouns.Set)
		enc.line("")
	}

	if n.Movement != nil {
		enc.movement(*n.Movement)
	}

	for _, d := range n.Dialog {
		enc.dialog(d)
	}
}

func (enc *Encoder) movement(mv worldjson.Movement) {
	enc.line("[npcs.movement]")

	action := "STATIC"
	if mv.Action != nil {
		action = string(*mv.Action)
	}
	enc.line("action = %s", Quoted(action))

	if mv.Path != nil {
		enc.line("path = %s", MultilineList(mv.Path.Strings()))
	}
	if mv.AllowedRooms != nil {
		enc.line("allowedRooms = %s", MultilineList(mv.AllowedRooms.Strings()))
	}
	if mv.ForbiddenRooms != nil {
		enc.line("forbiddenRooms = %s", MultilineList(mv.ForbiddenRooms.Strings()))
	}

	enc.line("")
}

func (enc *Encoder) dialog(d worldjson.DialogEntry) {
	enc.line("[[npcs.dialog]]")

	if d.Label != nil {
		enc.line("label = %s", Quoted(string(*d.Label)))
	}
	if d.Action != nil {
		enc.line("action = %s", Quoted(string(*d.Action)))
	}
	if d.Content != nil {
		enc.line("content = %s", Quoted(string(*d.Content)))
	}
	if d.Response != nil {
		enc.line("response = %s", Quoted(string(*d.Response)))
	}
	if d.Choices != nil {
		choices := d.Choices
		enc.line("choices = %s", MultilineListFunc(len(choices), func(i int) string {
			if choices[i].Pair {
				return InlineList(choices[i].Parts.Strings())
			}
			return Quoted(string(choices[i].Text))
		}))
	}

	enc.line("")
}
