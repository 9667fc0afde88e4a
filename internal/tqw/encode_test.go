package tqw

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dekarrin/tqwconv/internal/worldjson"
	"github.com/stretchr/testify/assert"
)

func encodeDoc(t *testing.T, doc worldjson.Document) (output string, warnings string) {
	t.Helper()

	var out bytes.Buffer
	var warn bytes.Buffer

	enc := NewEncoder(&out, &warn)
	err := enc.EncodeWorld(doc)
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}

	return out.String(), warn.String()
}

func textRef(s string) *worldjson.Text {
	t := worldjson.Text(s)
	return &t
}

func Test_EncodeWorld_preambleAndWorld(t *testing.T) {
	assert := assert.New(t)

	doc := worldjson.Document{Start: textRef("CAVE01")}

	actual, warnings := encodeDoc(t, doc)

	expect := `format = "TUNA"
type = "DATA"

[world]
start = "CAVE01"

`
	expect += "\n"

	assert.Equal(expect, actual)
	assert.Empty(warnings)
}

func Test_EncodeWorld_missingStartWarns(t *testing.T) {
	assert := assert.New(t)

	actual, warnings := encodeDoc(t, worldjson.Document{})

	assert.Contains(actual, "start = \"\"\n")
	assert.Contains(warnings, "missing key 'start'")
}

func Test_EncodeWorld_emptySectionsAbsent(t *testing.T) {
	assert := assert.New(t)

	actual, _ := encodeDoc(t, worldjson.Document{Start: textRef("X")})

	assert.NotContains(actual, "[[rooms]]")
	assert.NotContains(actual, "[pronouns.")
	assert.NotContains(actual, "[[npcs]]")
}

func Test_EncodeWorld_room(t *testing.T) {
	assert := assert.New(t)

	doc := worldjson.Document{
		Start: textRef("CAVE01"),
		Rooms: []worldjson.Room{
			{
				Label:       "CAVE01",
				Name:        "Dark Cave",
				Description: "A dark cave.",
				Exits: []worldjson.Exit{
					{
						Aliases:       worldjson.TextList{"NORTH", "OUT"},
						DestLabel:     "FOREST",
						Description:   "a narrow opening",
						TravelMessage: "You squeeze through.",
					},
				},
				Items: []worldjson.Item{
					{
						Label:       "SWORD",
						Aliases:     worldjson.TextList{"SWORD", "BLADE"},
						Name:        "a sword",
						Description: "A rusty sword.",
					},
				},
			},
		},
	}

	actual, _ := encodeDoc(t, doc)

	expect := `# cave01
[[rooms]]
label = "CAVE01"
name = "Dark Cave"
description = '''
A dark cave.
'''

[[rooms.exits]]
aliases = ["NORTH", "OUT"]
destLabel = "FOREST"
description = "a narrow opening"
travelMessage = '''
You squeeze through.
'''

[[rooms.items]]
label = "SWORD"
aliases = ["SWORD", "BLADE"]
name = "a sword"
description = '''
A rusty sword.
'''

`

	assert.Contains(actual, expect)
}

func Test_EncodeWorld_pronounTable(t *testing.T) {
	assert := assert.New(t)

	var tbl worldjson.PronounTable
	err := json.Unmarshal([]byte(`{
		"she/her": {"nominative": "she", "objective": "her", "possessive": "hers", "determiner": "her", "reflexive": "herself"},
		"he/him": {"nominative": "he"}
	}`), &tbl)
	if !assert.NoError(err) {
		return
	}

	doc := worldjson.Document{Start: textRef("X"), Pronouns: &tbl}

	actual, _ := encodeDoc(t, doc)

	expect := `[pronouns."she/her"]
nominative = "she"
objective = "her"
possessive = "hers"
determiner = "her"
reflexive = "herself"

[pronouns."he/him"]
nominative = "he"
objective = ""
possessive = ""
determiner = ""
reflexive = ""

`
	expect += "\n"

	assert.True(strings.HasSuffix(actual, expect), "pronoun tables not emitted as expected; got:\n%s", actual)
}

func Test_EncodeWorld_npcNamedPronouns(t *testing.T) {
	assert := assert.New(t)

	doc := worldjson.Document{
		Start: textRef("GATE"),
		NPCs: []worldjson.NPC{
			{
				Label:       "GUARD",
				Aliases:     worldjson.TextList{"GUARD", "SOLDIER"},
				Name:        "the guard",
				Start:       "GATE",
				Pronouns:    worldjson.PronounRef{Kind: worldjson.PronounsNamed, Name: "he/him"},
				Description: "A bored-looking guard.",
				Movement: &worldjson.Movement{
					Action: textRef("PATROL"),
					Path:   worldjson.TextList{"GATE", "YARD"},
				},
				Dialog: []worldjson.DialogEntry{
					{Content: textRef("Halt!")},
				},
			},
		},
	}

	actual, _ := encodeDoc(t, doc)

	expect := "[[npcs]]\n"
	expect += "label = \"GUARD\"\n"
	expect += "aliases = [\n\t\"GUARD\",\n\t\"SOLDIER\",\n]\n"
	expect += "name = \"the guard\"\n"
	expect += "start = \"GATE\"\n"
	expect += "pronouns = \"he/him\"\n"
	expect += "description = '''\nA bored-looking guard.\n'''\n"
	expect += "\n"
	expect += "[npcs.movement]\n"
	expect += "action = \"PATROL\"\n"
	expect += "path = [\n\t\"GATE\",\n\t\"YARD\",\n]\n"
	expect += "\n"
	expect += "[[npcs.dialog]]\n"
	expect += "content = \"Halt!\"\n"
	expect += "\n"

	assert.Contains(actual, expect)
	assert.NotContains(actual, "[npcs.pronouns]")
	assert.NotContains(actual, "allowedRooms")
	assert.NotContains(actual, "forbiddenRooms")
}

func Test_EncodeWorld_npcInlinePronouns(t *testing.T) {
	assert := assert.New(t)

	doc := worldjson.Document{
		Start: textRef("X"),
		NPCs: []worldjson.NPC{
			{
				Label: "CAT",
				Pronouns: worldjson.PronounRef{
					Kind: worldjson.PronounsInline,
					Set:  worldjson.PronounSet{Nominative: "it", Objective: "it", Possessive: "its", Determiner: "its", Reflexive: "itself"},
				},
				Description: "A cat.",
			},
		},
	}

	actual, _ := encodeDoc(t, doc)

	assert.NotContains(actual, "pronouns = ")

	expect := "description = '''\nA cat.\n'''\n"
	expect += "\n"
	expect += "[npcs.pronouns]\n"
	expect += "nominative = \"it\"\n"
	expect += "objective = \"it\"\n"
	expect += "possessive = \"its\"\n"
	expect += "determiner = \"its\"\n"
	expect += "reflexive = \"itself\"\n"

	assert.Contains(actual, expect)
}

func Test_EncodeWorld_movementDefaultsStatic(t *testing.T) {
	assert := assert.New(t)

	doc := worldjson.Document{
		Start: textRef("X"),
		NPCs: []worldjson.NPC{
			{Label: "STATUE", Movement: &worldjson.Movement{}},
		},
	}

	actual, _ := encodeDoc(t, doc)

	assert.Contains(actual, "[npcs.movement]\naction = \"STATIC\"\n")
	assert.NotContains(actual, "path")
}

func Test_EncodeWorld_dialogOmitsAbsentFields(t *testing.T) {
	assert := assert.New(t)

	doc := worldjson.Document{
		Start: textRef("X"),
		NPCs: []worldjson.NPC{
			{
				Label: "SAGE",
				Dialog: []worldjson.DialogEntry{
					{
						Label:  textRef("ASK"),
						Action: textRef("CHOICE"),
						Choices: []worldjson.Choice{
							{Text: "What is this place?"},
							{Pair: true, Parts: worldjson.TextList{"Goodbye", "BYE"}},
						},
					},
				},
			},
		},
	}

	actual, _ := encodeDoc(t, doc)

	expect := "[[npcs.dialog]]\n"
	expect += "label = \"ASK\"\n"
	expect += "action = \"CHOICE\"\n"
	expect += "choices = [\n"
	expect += "\t\"What is this place?\",\n"
	expect += "\t[\"Goodbye\", \"BYE\"],\n"
	expect += "]\n"

	assert.Contains(actual, expect)
	assert.NotContains(actual, "content = ")
	assert.NotContains(actual, "response = ")
}

func Test_EncodeWorld_descriptionReflow(t *testing.T) {
	assert := assert.New(t)

	words := []string{}
	for i := 0; i < 60; i++ {
		words = append(words, "chamber", "of", "echoing", "waterfalls")
	}
	longDesc := strings.Join(words, " ")

	doc := worldjson.Document{
		Start: textRef("X"),
		Rooms: []worldjson.Room{
			{Label: "HALL", Description: worldjson.Text(longDesc)},
		},
	}

	actual, _ := encodeDoc(t, doc)

	start := strings.Index(actual, "description = '''\n")
	if !assert.NotEqual(-1, start) {
		return
	}
	rest := actual[start+len("description = '''\n"):]
	end := strings.Index(rest, "'''")
	if !assert.NotEqual(-1, end) {
		return
	}

	block := rest[:end]
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")

	assert.Greater(len(lines), 1, "long description was not split into multiple lines")
	for i, ln := range lines {
		assert.LessOrEqual(len(ln), BlockWidth, "line %d is over width", i)
	}

	// re-flow may move line breaks but never words
	assert.Equal(words, strings.Fields(block))
}

func Test_EncodeWorld_reflowKeepsOversizeWordsWhole(t *testing.T) {
	assert := assert.New(t)

	// a single token wider than the block, like a long URL
	token := "https://example.com/worlds/" + strings.Repeat("x", 130)

	doc := worldjson.Document{
		Start: textRef("X"),
		Rooms: []worldjson.Room{
			{Label: "HALL", Description: worldjson.Text("See " + token + " for more.")},
		},
	}

	actual, _ := encodeDoc(t, doc)

	start := strings.Index(actual, "description = '''\n")
	if !assert.NotEqual(-1, start) {
		return
	}
	rest := actual[start+len("description = '''\n"):]
	end := strings.Index(rest, "'''")
	if !assert.NotEqual(-1, end) {
		return
	}

	block := rest[:end]
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")

	// the oversize word is emitted on its own over-width line, never
	// broken and never hyphenated
	assert.Equal([]string{"See", token, "for more."}, lines)
	assert.Equal([]string{"See", token, "for", "more."}, strings.Fields(block))
	assert.NotContains(block, token[:120]+"-")
}

func Test_EncodeWorld_emptyDescriptionBlock(t *testing.T) {
	assert := assert.New(t)

	doc := worldjson.Document{
		Start: textRef("X"),
		Rooms: []worldjson.Room{{Label: "VOID"}},
	}

	actual, _ := encodeDoc(t, doc)

	assert.Contains(actual, "description = '''\n'''\n")
}

func Test_VerifyWorldData(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expectErr bool
	}{
		{
			name:  "minimal valid document",
			input: "format = \"TUNA\"\ntype = \"DATA\"\n\n[world]\nstart = \"X\"\n",
		},
		{
			name:      "wrong format",
			input:     "format = \"YAML\"\ntype = \"DATA\"\n",
			expectErr: true,
		},
		{
			name:      "wrong type",
			input:     "format = \"TUNA\"\ntype = \"MANIFEST\"\n",
			expectErr: true,
		},
		{
			name:      "not toml",
			input:     "format = \"TUNA\"\ntype = \"DATA\"\n\n[world\n",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := VerifyWorldData([]byte(tc.input))
			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_EncodeWorld_outputVerifies(t *testing.T) {
	assert := assert.New(t)

	var tbl worldjson.PronounTable
	err := json.Unmarshal([]byte(`{"ze/zir": {"nominative": "ze"}}`), &tbl)
	if !assert.NoError(err) {
		return
	}

	doc := worldjson.Document{
		Start:    textRef("CAVE01"),
		Pronouns: &tbl,
		Rooms: []worldjson.Room{
			{
				Label:       "CAVE01",
				Name:        "Dark Cave",
				Description: "A dark cave.",
				Exits: []worldjson.Exit{
					{Aliases: worldjson.TextList{"OUT"}, DestLabel: "FOREST", TravelMessage: "You leave."},
				},
			},
		},
		NPCs: []worldjson.NPC{
			{
				Label:       "GUARD",
				Aliases:     worldjson.TextList{"GUARD"},
				Pronouns:    worldjson.PronounRef{Kind: worldjson.PronounsNamed, Name: "ze/zir"},
				Description: "A guard.",
				Dialog:      []worldjson.DialogEntry{{Content: textRef("Hello.")}},
			},
			{
				Label:    "CAT",
				Pronouns: worldjson.PronounRef{Kind: worldjson.PronounsInline, Set: worldjson.PronounSet{Nominative: "it"}},
			},
		},
	}

	actual, _ := encodeDoc(t, doc)

	assert.NoError(VerifyWorldData([]byte(actual)))
}
