package tqw

// File decode.go has the TOML-side representation of an emitted TQW
// document and the verification decode used to confirm that produced
// output parses back against the format grammar.

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// topLevelWorldData is the top-level structure containing all keys in a
// complete converted TQW 'DATA' type file.
type topLevelWorldData struct {
	Format   string                `toml:"format"`
	Type     string                `toml:"type"`
	World    world                 `toml:"world"`
	Rooms    []room                `toml:"rooms"`
	Pronouns map[string]pronounSet `toml:"pronouns"`
	NPCs     []npc                 `toml:"npcs"`
}

type world struct {
	Start string `toml:"start"`
}

type room struct {
	Label       string   `toml:"label"`
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Exits       []egress `toml:"exits"`
	Items       []item   `toml:"items"`
}

type egress struct {
	Aliases       []string `toml:"aliases"`
	DestLabel     string   `toml:"destLabel"`
	Description   string   `toml:"description"`
	TravelMessage string   `toml:"travelMessage"`
}

type item struct {
	Label       string   `toml:"label"`
	Aliases     []string `toml:"aliases"`
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
}

type pronounSet struct {
	Nominative string `toml:"nominative"`
	Objective  string `toml:"objective"`
	Possessive string `toml:"possessive"`
	Determiner string `toml:"determiner"`
	Reflexive  string `toml:"reflexive"`
}

type npc struct {
	Label       string   `toml:"label"`
	Aliases     []string `toml:"aliases"`
	Name        string   `toml:"name"`
	Start       string   `toml:"start"`
	Description string   `toml:"description"`

	// Pronouns is either a reference string or an inline
	// [npcs.pronouns] table, so its shape is checked during
	// verification rather than fixed here.
	Pronouns interface{} `toml:"pronouns"`

	Movement *route       `toml:"movement"`
	Dialogs  []dialogStep `toml:"dialog"`
}

type route struct {
	Action    string   `toml:"action"`
	Path      []string `toml:"path"`
	Allowed   []string `toml:"allowedRooms"`
	Forbidden []string `toml:"forbiddenRooms"`
}

type dialogStep struct {
	Label    string        `toml:"label"`
	Action   string        `toml:"action"`
	Content  string        `toml:"content"`
	Response string        `toml:"response"`
	Choices  []interface{} `toml:"choices"`
}

// VerifyWorldData checks that data is a parseable TQW 'DATA' document:
// the header declares the TUNA format and DATA type, the tables decode
// into the world data structure, and every NPC pronouns entry is one of
// its two legal shapes. It does not validate cross-references between
// labels.
func VerifyWorldData(data []byte) error {
	info, err := ScanFileInfo(data)
	if err != nil {
		return fmt.Errorf("detecting file type: %w", err)
	}
	if strings.ToUpper(info.Format) != FormatName {
		return fmt.Errorf("in header: 'format' key must exist and be set to %q", FormatName)
	}
	if strings.ToUpper(info.Type) != TypeWorldData {
		return fmt.Errorf("in header: 'type' must exist and be set to %q", TypeWorldData)
	}

	var tqw topLevelWorldData
	if err := toml.Unmarshal(data, &tqw); err != nil {
		return err
	}

	for _, n := range tqw.NPCs {
		switch n.Pronouns.(type) {
		case nil, string, map[string]interface{}:
		default:
			return fmt.Errorf("npc %q: pronouns is neither a reference nor a pronoun set", n.Label)
		}
	}

	return nil
}
