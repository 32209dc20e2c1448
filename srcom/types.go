package srcom

import (
	"encoding/json"
	"fmt"
)

// Envelope is the top-level wrapper every speedrun.com response carries.
// Data holds either a single object or an array, depending on the endpoint.
type Envelope struct {
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

// Pagination describes one page of a collection response. When Size == Max
// further pages may exist, reachable through the URI of the last link.
type Pagination struct {
	Offset int    `json:"offset"`
	Max    int    `json:"max"`
	Size   int    `json:"size"`
	Links  []Link `json:"links"`
}

// Link is a pagination link. The API emits "prev" and "next" relations but
// the next page is conventionally the last entry regardless of label.
type Link struct {
	Rel string `json:"rel"`
	URI string `json:"uri"`
}

// apiErrorBody is the error envelope returned on 4xx responses.
type apiErrorBody struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// Kind identifies a resource collection on the API.
type Kind string

const (
	KindGame     Kind = "games"
	KindUser     Kind = "users"
	KindRun      Kind = "runs"
	KindSeries   Kind = "series"
	KindCategory Kind = "categories"
	KindLevel    Kind = "levels"
)

// Game is a game entry. Names carries the international/japanese variants.
type Game struct {
	ID           string            `json:"id"`
	Names        Names             `json:"names"`
	Abbreviation string            `json:"abbreviation"`
	Weblink      string            `json:"weblink"`
	Released     int               `json:"released"`
	ReleaseDate  string            `json:"release-date"`
	Ruleset      Ruleset           `json:"ruleset"`
	Platforms    json.RawMessage   `json:"platforms,omitempty"`
	Moderators   map[string]string `json:"moderators,omitempty"`
}

// Names holds localized name variants.
type Names struct {
	International string `json:"international"`
	Japanese      string `json:"japanese"`
	Twitch        string `json:"twitch,omitempty"`
}

// Ruleset describes a game's timing rules.
type Ruleset struct {
	ShowMilliseconds    bool     `json:"show-milliseconds"`
	RequireVerification bool     `json:"require-verification"`
	RequireVideo        bool     `json:"require-video"`
	RunTimes            []string `json:"run-times"`
	DefaultTime         string   `json:"default-time"`
	EmulatorsAllowed    bool     `json:"emulators-allowed"`
}

// User is a registered account.
type User struct {
	ID            string `json:"id"`
	Names         Names  `json:"names"`
	Weblink       string `json:"weblink"`
	Role          string `json:"role"`
	Signup        string `json:"signup,omitempty"`
	Twitch        *Uri   `json:"twitch,omitempty"`
	Hitbox        *Uri   `json:"hitbox,omitempty"`
	YouTube       *Uri   `json:"youtube,omitempty"`
	Twitter       *Uri   `json:"twitter,omitempty"`
	SpeedrunsLive *Uri   `json:"speedrunslive,omitempty"`
}

// Uri wraps the {"uri": ...} objects the API nests social links in.
type Uri struct {
	URI string `json:"uri"`
}

// Series is a collection of related games.
type Series struct {
	ID           string            `json:"id"`
	Names        Names             `json:"names"`
	Abbreviation string            `json:"abbreviation"`
	Weblink      string            `json:"weblink"`
	Moderators   map[string]string `json:"moderators,omitempty"`
}

// Category is a ruleset bucket runs are submitted under.
type Category struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Weblink string `json:"weblink"`
	Type    string `json:"type"`
	Rules   string `json:"rules"`
}

// Run is a recorded, possibly verified, speedrun.
type Run struct {
	ID        string      `json:"id"`
	Weblink   string      `json:"weblink"`
	Game      string      `json:"game"`
	Level     string      `json:"level,omitempty"`
	Category  string      `json:"category"`
	Videos    *RunVideos  `json:"videos,omitempty"`
	Comment   string      `json:"comment,omitempty"`
	Status    RunStatus   `json:"status"`
	Players   []RunPlayer `json:"players"`
	Date      string      `json:"date,omitempty"`
	Submitted string      `json:"submitted,omitempty"`
	Times     RunTimes    `json:"times"`
	System    RunSystem   `json:"system"`
}

// RunVideos holds video evidence links.
type RunVideos struct {
	Text  string `json:"text,omitempty"`
	Links []Uri  `json:"links,omitempty"`
}

// RunStatus is the moderation state of a run.
type RunStatus struct {
	Status     string `json:"status"` // new, verified, rejected
	Examiner   string `json:"examiner,omitempty"`
	VerifyDate string `json:"verify-date,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// RunPlayer references a participant: a registered user by ID or a guest
// by name.
type RunPlayer struct {
	Rel  string `json:"rel"` // user or guest
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	URI  string `json:"uri,omitempty"`
}

// RunTimes carries the recorded times in seconds across timer kinds.
type RunTimes struct {
	Primary          string  `json:"primary"`
	PrimaryT         float64 `json:"primary_t"`
	Realtime         string  `json:"realtime,omitempty"`
	RealtimeT        float64 `json:"realtime_t"`
	RealtimeNoloads  string  `json:"realtime_noloads,omitempty"`
	RealtimeNoloadsT float64 `json:"realtime_noloads_t"`
	Ingame           string  `json:"ingame,omitempty"`
	IngameT          float64 `json:"ingame_t"`
}

// RunSystem describes the hardware a run was performed on.
type RunSystem struct {
	Platform string `json:"platform,omitempty"`
	Emulated bool   `json:"emulated"`
	Region   string `json:"region,omitempty"`
}

// decoders is the static registry mapping a resource kind to its decode
// function. Kinds are resolved at compile time, never by reflection.
var decoders = map[Kind]func(json.RawMessage) (any, error){
	KindGame:     decodeInto[Game],
	KindUser:     decodeInto[User],
	KindRun:      decodeInto[Run],
	KindSeries:   decodeInto[Series],
	KindCategory: decodeInto[Category],
}

func decodeInto[T any](raw json.RawMessage) (any, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Decode parses a raw data object into the entity type registered for kind.
func Decode(kind Kind, raw json.RawMessage) (any, error) {
	dec, ok := decoders[kind]
	if !ok {
		return nil, fmt.Errorf("no decoder registered for resource kind %q", kind)
	}
	v, err := dec(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s entity: %w", kind, err)
	}
	return v, nil
}
