// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package morph

// Prefix is a derivational prefix
type Prefix struct {
	Form     string
	Gloss    string
	Category string
}

// Suffix is a derivational or inflectional suffix.
// Pos is the part of speech the suffix produces,
// FromPos the one it attaches to.
type Suffix struct {
	Form    string
	Gloss   string
	Pos     string
	FromPos string
}

// Order of both affix tables determines the order in which
// decompositions are explored and thus which one of equally
// long parses is selected. Do not reorder.

var defaultPrefixes = []Prefix{
	{Form: "un", Gloss: "NEG", Category: "negation"},
	{Form: "re", Gloss: "again", Category: "repetition"},
	{Form: "pre", Gloss: "before", Category: "temporal"},
	{Form: "post", Gloss: "after", Category: "temporal"},
	{Form: "dis", Gloss: "apart/NEG", Category: "negation"},
	{Form: "mis", Gloss: "wrongly", Category: "evaluative"},
	{Form: "over", Gloss: "excess", Category: "degree"},
	{Form: "under", Gloss: "insufficient", Category: "degree"},
	{Form: "out", Gloss: "surpass", Category: "degree"},
	{Form: "sub", Gloss: "below", Category: "spatial"},
	{Form: "super", Gloss: "above", Category: "spatial"},
	{Form: "inter", Gloss: "between", Category: "relational"},
	{Form: "trans", Gloss: "across", Category: "spatial"},
	{Form: "anti", Gloss: "against", Category: "opposition"},
	{Form: "counter", Gloss: "against", Category: "opposition"},
	{Form: "de", Gloss: "reverse", Category: "privative"},
	{Form: "non", Gloss: "not", Category: "negation"},
	{Form: "semi", Gloss: "half", Category: "degree"},
	{Form: "co", Gloss: "together", Category: "relational"},
	{Form: "micro", Gloss: "small", Category: "size"},
	{Form: "macro", Gloss: "large", Category: "size"},
	{Form: "multi", Gloss: "many", Category: "quantity"},
	{Form: "mono", Gloss: "one", Category: "quantity"},
	{Form: "bi", Gloss: "two", Category: "quantity"},
	{Form: "tri", Gloss: "three", Category: "quantity"},
	{Form: "poly", Gloss: "many", Category: "quantity"},
	{Form: "auto", Gloss: "self", Category: "reflexive"},
	{Form: "neo", Gloss: "new", Category: "temporal"},
	{Form: "proto", Gloss: "first", Category: "temporal"},
	{Form: "pseudo", Gloss: "false", Category: "evaluative"},
}

var defaultSuffixes = []Suffix{
	{Form: "ness", Gloss: "NOM (state)", Pos: "N", FromPos: "ADJ"},
	{Form: "ment", Gloss: "NOM (result)", Pos: "N", FromPos: "V"},
	{Form: "tion", Gloss: "NOM (process)", Pos: "N", FromPos: "V"},
	{Form: "sion", Gloss: "NOM (process)", Pos: "N", FromPos: "V"},
	{Form: "ation", Gloss: "NOM (process)", Pos: "N", FromPos: "V"},
	{Form: "ity", Gloss: "NOM (quality)", Pos: "N", FromPos: "ADJ"},
	{Form: "ism", Gloss: "NOM (doctrine)", Pos: "N", FromPos: "N/ADJ"},
	{Form: "ist", Gloss: "AGENT", Pos: "N", FromPos: "N/V"},
	{Form: "er", Gloss: "AGENT/COMP", Pos: "N/ADJ", FromPos: "V/ADJ"},
	{Form: "or", Gloss: "AGENT", Pos: "N", FromPos: "V"},
	{Form: "able", Gloss: "ADJ.POT", Pos: "ADJ", FromPos: "V"},
	{Form: "ible", Gloss: "ADJ.POT", Pos: "ADJ", FromPos: "V"},
	{Form: "ful", Gloss: "ADJ (full of)", Pos: "ADJ", FromPos: "N"},
	{Form: "less", Gloss: "ADJ (without)", Pos: "ADJ", FromPos: "N"},
	{Form: "ous", Gloss: "ADJ (having)", Pos: "ADJ", FromPos: "N"},
	{Form: "ive", Gloss: "ADJ (tending)", Pos: "ADJ", FromPos: "V"},
	{Form: "al", Gloss: "ADJ (relating)", Pos: "ADJ", FromPos: "N"},
	{Form: "ic", Gloss: "ADJ (of)", Pos: "ADJ", FromPos: "N"},
	{Form: "ical", Gloss: "ADJ (of)", Pos: "ADJ", FromPos: "N"},
	{Form: "ize", Gloss: "VERB (make)", Pos: "V", FromPos: "N/ADJ"},
	{Form: "ise", Gloss: "VERB (make)", Pos: "V", FromPos: "N/ADJ"},
	{Form: "ify", Gloss: "VERB (make)", Pos: "V", FromPos: "N/ADJ"},
	{Form: "en", Gloss: "VERB (make)", Pos: "V", FromPos: "ADJ"},
	{Form: "ate", Gloss: "VERB (cause)", Pos: "V", FromPos: "N/ADJ"},
	{Form: "ly", Gloss: "ADV", Pos: "ADV", FromPos: "ADJ"},
	{Form: "ward", Gloss: "ADV (direction)", Pos: "ADV", FromPos: "N"},
	{Form: "wise", Gloss: "ADV (manner)", Pos: "ADV", FromPos: "N"},
	{Form: "ing", Gloss: "PROG/GER", Pos: "V/N", FromPos: "V"},
	{Form: "ed", Gloss: "PAST/PTCP", Pos: "V/ADJ", FromPos: "V"},
	{Form: "s", Gloss: "PL/3SG", Pos: "N/V", FromPos: "N/V"},
	{Form: "es", Gloss: "PL/3SG", Pos: "N/V", FromPos: "N/V"},
}

var defaultRoots = []string{
	"act", "age", "art", "base", "bear", "beat", "bind", "bite", "blow", "break",
	"bring", "build", "burn", "buy", "call", "care", "carry", "cast", "catch",
	"change", "charge", "check", "claim", "class", "clear", "close", "code",
	"come", "connect", "count", "cover", "cross", "cut", "deal", "depend",
	"develop", "direct", "do", "draw", "drive", "drop", "eat", "effect",
	"end", "enter", "equal", "event", "face", "fact", "fall", "feel", "fight",
	"fill", "find", "fire", "fit", "flow", "fly", "follow", "force", "form",
	"found", "free", "front", "gain", "give", "go", "govern", "grade", "grand",
	"ground", "group", "grow", "guide", "hand", "hang", "happen", "happy",
	"head", "hear", "heart", "help", "hold", "home", "hope", "human", "idea",
	"interest", "issue", "join", "just", "keep", "kind", "king", "know",
	"land", "language", "large", "late", "lead", "learn", "leave", "level",
	"light", "like", "line", "link", "list", "live", "long", "look", "lose",
	"love", "make", "manage", "mark", "master", "match", "mean", "measure",
	"mind", "miss", "model", "move", "music", "name", "nation", "nature",
	"need", "note", "number", "open", "order", "organ", "own", "part",
	"pass", "pay", "people", "period", "person", "place", "plan", "plant",
	"play", "point", "politic", "port", "pose", "power", "press", "produce",
	"program", "project", "prove", "public", "pull", "purpose", "push",
	"put", "question", "quiet", "reach", "read", "real", "reason", "record",
	"reduce", "relate", "report", "rest", "result", "return", "right", "rise",
	"roll", "room", "rule", "run", "safe", "say", "school", "search", "sense",
	"serve", "set", "show", "side", "sign", "simple", "sit", "social", "solve",
	"sort", "sound", "speak", "stand", "start", "state", "step", "stop",
	"story", "struct", "study", "support", "sure", "system", "take", "talk",
	"teach", "tell", "tend", "test", "think", "time", "touch", "trade",
	"train", "treat", "turn", "type", "understand", "use", "value", "view",
	"visit", "voice", "walk", "want", "war", "watch", "water", "way",
	"will", "win", "word", "work", "world", "write", "young",
}
