// Package worldjson reads game world definitions in the legacy JSON
// format that predates TQW files. The format is permissive; nearly every
// key is optional and several fields accept more than one shape, so the
// decoded document records which shape each polymorphic field was given
// in and tracks key presence where it changes the converted output.
package worldjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/keboola/go-utils/pkg/orderedmap"
)

// Text is a string field read leniently: JSON numbers and booleans are
// accepted and stringified rather than rejected, the way the old format
// was read in practice. A JSON null decodes to the empty string.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*t = Text(n.String())
		return nil
	}

	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*t = Text(strconv.FormatBool(v))
		return nil
	}

	return fmt.Errorf("cannot read %s as a text value", string(b))
}

// TextList is a list of lenient text values.
type TextList []Text

// Strings returns the list as plain strings.
func (tl TextList) Strings() []string {
	out := make([]string, len(tl))
	for i := range tl {
		out[i] = string(tl[i])
	}
	return out
}

// Document is a single decoded world-definition document. Every
// top-level key is optional; a nil Start distinguishes a missing start
// room from an explicitly empty one.
type Document struct {
	Start    *Text         `json:"start"`
	Rooms    []Room        `json:"rooms"`
	Pronouns *PronounTable `json:"pronouns"`
	NPCs     []NPC         `json:"npcs"`
}

// Decode reads one world document from r.
func Decode(r io.Reader) (Document, error) {
	var doc Document

	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, err
	}

	return doc, nil
}

// Room is a scene in the game world. Exits and items keep the order
// they were defined in.
type Room struct {
	// Label is how the room is referred to by exits and NPC start
	// positions. It should be unique from all other room labels.
	Label Text `json:"label"`

	// Name is the room's display name.
	Name Text `json:"name"`

	// Description is the long description of the room.
	Description Text `json:"description"`

	// Exits is the egress points leading out of the room.
	Exits []Exit `json:"exits"`

	// Items is the items on the ground at game start.
	Items []Item `json:"items"`
}

// Exit is an egress point from a room.
type Exit struct {
	// Aliases is the command words that travel via this exit.
	Aliases TextList `json:"aliases"`

	// DestLabel is the label of the room the exit leads to. It is not
	// checked against the defined rooms.
	DestLabel Text `json:"destLabel"`

	// Description is the long description of the exit.
	Description Text `json:"description"`

	// TravelMessage is shown when the player uses the exit.
	TravelMessage Text `json:"travelMessage"`
}

// Item is an object that can be picked up in a room.
type Item struct {
	Label       Text     `json:"label"`
	Aliases     TextList `json:"aliases"`
	Name        Text     `json:"name"`
	Description Text     `json:"description"`
}

// PronounSet is one set of pronouns, either shared under a name in the
// document's pronouns table or defined inline on an NPC.
type PronounSet struct {
	Nominative Text `json:"nominative"`
	Objective  Text `json:"objective"`
	Possessive Text `json:"possessive"`
	Determiner Text `json:"determiner"`
	Reflexive  Text `json:"reflexive"`
}

// PronounTable is the document's table of named pronoun sets. Iteration
// order is the key order of the source document, which the converted
// output must reproduce, so it cannot be held in a plain map.
type PronounTable struct {
	names []string
	sets  map[string]PronounSet
}

func (pt *PronounTable) UnmarshalJSON(b []byte) error {
	om := orderedmap.New()
	if err := json.Unmarshal(b, om); err != nil {
		return err
	}

	pt.names = om.Keys()
	pt.sets = make(map[string]PronounSet, len(pt.names))

	for _, name := range pt.names {
		var ps PronounSet

		if sub := om.GetOrNil(name); sub != nil {
			raw, err := json.Marshal(sub)
			if err != nil {
				return fmt.Errorf("pronoun set %q: %w", name, err)
			}
			if err := json.Unmarshal(raw, &ps); err != nil {
				return fmt.Errorf("pronoun set %q: %w", name, err)
			}
		}

		pt.sets[name] = ps
	}

	return nil
}

// Names returns the set names in document order.
func (pt *PronounTable) Names() []string {
	if pt == nil {
		return nil
	}
	return pt.names
}

// Get returns the set with the given name. If no set has that name, the
// zero set is returned.
func (pt *PronounTable) Get(name string) PronounSet {
	if pt == nil {
		return PronounSet{}
	}
	return pt.sets[name]
}

// Len returns the number of sets in the table.
func (pt *PronounTable) Len() int {
	if pt == nil {
		return 0
	}
	return len(pt.names)
}

// PronounKind is which of the two shapes an NPC's pronouns field was
// given in.
type PronounKind int

const (
	// PronounsNamed is a string naming a set in the document's pronouns
	// table. A missing pronouns key decodes as a named reference to the
	// empty string.
	PronounsNamed PronounKind = iota

	// PronounsInline is a full pronoun set defined on the NPC itself.
	PronounsInline
)

func (pk PronounKind) String() string {
	switch pk {
	case PronounsNamed:
		return "NAMED"
	case PronounsInline:
		return "INLINE"
	default:
		return fmt.Sprintf("PronounKind(%d)", int(pk))
	}
}

// PronounRef is an NPC's pronouns field. Which of Name and Set is
// meaningful depends on Kind.
type PronounRef struct {
	Kind PronounKind

	// Name is the referenced set name. Only used if Kind is
	// PronounsNamed.
	Name Text

	// Set is the inline definition. Only used if Kind is
	// PronounsInline.
	Set PronounSet
}

func (pr *PronounRef) UnmarshalJSON(b []byte) error {
	t := bytes.TrimSpace(b)

	if len(t) > 0 && t[0] == '{' {
		pr.Kind = PronounsInline
		return json.Unmarshal(b, &pr.Set)
	}

	pr.Kind = PronounsNamed
	return json.Unmarshal(b, &pr.Name)
}

// NPC is a non-player character definition. Dialog entries keep the
// order they were defined in.
type NPC struct {
	// Label is the canonical way to refer to the NPC. It should be
	// unique from all other NPC labels.
	Label Text `json:"label"`

	// Aliases is all names the player can use to refer to the NPC.
	Aliases TextList `json:"aliases"`

	// Name is the short description of the NPC.
	Name Text `json:"name"`

	// Start is the label of the room the NPC starts the game in. It is
	// not checked against the defined rooms.
	Start Text `json:"start"`

	// Pronouns is either a reference to a named set or an inline
	// definition.
	Pronouns PronounRef `json:"pronouns"`

	// Description is the long description of the NPC.
	Description Text `json:"description"`

	// Movement is how the NPC moves between rooms. Nil when the key is
	// absent or null, in which case no movement table is emitted.
	Movement *Movement `json:"movement"`

	// Dialog is the NPC's dialog tree.
	Dialog []DialogEntry `json:"dialog"`
}

// Movement is an NPC's movement behavior. Only the list keys that were
// present in the source appear in the converted output, so the lists
// stay nil when their keys are absent.
type Movement struct {
	// Action is the kind of movement. Nil means the key was absent and
	// the STATIC default applies.
	Action *Text `json:"action"`

	// Path is the patrol steps, by room label.
	Path TextList `json:"path"`

	// AllowedRooms is the rooms wandering movement may enter.
	AllowedRooms TextList `json:"allowedRooms"`

	// ForbiddenRooms is the rooms wandering movement must stay out of.
	ForbiddenRooms TextList `json:"forbiddenRooms"`
}

// DialogEntry is a single step of an NPC's dialog tree. A bare string
// in the source is shorthand for an entry with only Content set. Nil
// fields were absent in the source and are omitted from the converted
// output rather than emitted as empty defaults.
type DialogEntry struct {
	Label    *Text    `json:"label"`
	Action   *Text    `json:"action"`
	Content  *Text    `json:"content"`
	Response *Text    `json:"response"`
	Choices  []Choice `json:"choices"`
}

func (de *DialogEntry) UnmarshalJSON(b []byte) error {
	t := bytes.TrimSpace(b)

	if len(t) > 0 && t[0] != '{' {
		var content Text
		if err := json.Unmarshal(b, &content); err != nil {
			return err
		}
		*de = DialogEntry{Content: &content}
		return nil
	}

	// local alias type so the custom unmarshal doesn't recurse
	type entry DialogEntry
	var raw entry
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*de = DialogEntry(raw)
	return nil
}

// Choice is one entry of a dialog step's choice list. Old world files
// carry either a plain prompt string or a [prompt, destination-label]
// pair.
type Choice struct {
	// Pair is whether the choice was given as a pair.
	Pair bool

	// Text is the prompt. Only used if Pair is false.
	Text Text

	// Parts is the pair elements. Only used if Pair is true.
	Parts TextList
}

func (c *Choice) UnmarshalJSON(b []byte) error {
	t := bytes.TrimSpace(b)

	if len(t) > 0 && t[0] == '[' {
		c.Pair = true
		return json.Unmarshal(b, &c.Parts)
	}

	c.Pair = false
	return json.Unmarshal(b, &c.Text)
}
