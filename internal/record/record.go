// Package record holds the normalized result of one extraction.
package record

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Post is an extracted post or long-form article. Empty strings mean the
// field was not found.
type Post struct {
	SourceURL      string   `json:"url"`
	Username       string   `json:"username"`
	DisplayName    string   `json:"displayName"`
	Title          string   `json:"title,omitempty"`
	Body           string   `json:"body"`
	Timestamp      string   `json:"timestamp,omitempty"`
	Media          []string `json:"media"`
	VideoThumbnail string   `json:"videoThumbnail,omitempty"`
	Quoted         *Quoted  `json:"quotedPost,omitempty"`
	Stats          Stats    `json:"stats"`
	IsLongForm     bool     `json:"isLongForm"`
}

// Quoted is the reduced record of an embedded quoted post.
type Quoted struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Body        string `json:"body"`
}

type Stat string

const (
	Replies  Stat = "replies"
	Retweets Stat = "retweets"
	Likes    Stat = "likes"
	Views    Stat = "views"
)

// StatOrder is the fixed order stats are rendered in.
var StatOrder = []Stat{Replies, Retweets, Likes, Views}

// Stats maps a counter to its value. A missing key means unknown.
type Stats map[Stat]StatValue

// StatValue is either a number or text copied from the page (e.g. "1.2K").
type StatValue struct {
	text   string
	number int64
	isText bool
}

func Count(n int64) StatValue {
	return StatValue{number: n}
}

func Text(s string) StatValue {
	return StatValue{text: s, isText: true}
}

func (v StatValue) IsText() bool {
	return v.isText
}

// Number returns the numeric value; ok is false for text values.
func (v StatValue) Number() (n int64, ok bool) {
	return v.number, !v.isText
}

// Raw returns the unformatted value.
func (v StatValue) Raw() string {
	if v.isText {
		return v.text
	}
	return strconv.FormatInt(v.number, 10)
}

func (v StatValue) MarshalJSON() ([]byte, error) {
	if v.isText {
		return json.Marshal(v.text)
	}
	return json.Marshal(v.number)
}

func (v *StatValue) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = Count(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("stat value must be a number or a string: %w", err)
	}
	*v = Text(s)
	return nil
}

// MarshalYAML encodes the value the same way as JSON.
func (v StatValue) MarshalYAML() (interface{}, error) {
	if v.isText {
		return v.text, nil
	}
	return v.number, nil
}
