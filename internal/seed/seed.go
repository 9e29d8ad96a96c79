package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sample []byte

// Data is a complete seed set
type Data struct {
	QuestTypes   []string      `yaml:"quest_types"`
	Difficulties []string      `yaml:"difficulties"`
	Interests    []string      `yaml:"interests"`
	Achievements []Achievement `yaml:"achievements"`
	Users        []User        `yaml:"users"`
	Locations    []Location    `yaml:"locations"`
	Campaigns    []Campaign    `yaml:"campaigns"`
	Quests       []Quest       `yaml:"quests"`
}

type Achievement struct {
	Name        string  `yaml:"name"`
	Description *string `yaml:"description"`
	IconURL     *string `yaml:"icon_url"`
}

type User struct {
	Email       string  `yaml:"email"`
	DisplayName string  `yaml:"display_name"`
	Password    string  `yaml:"password"`
	AvatarURL   *string `yaml:"avatar_url"`
	GuildRank   *string `yaml:"guild_rank"`
}

type Location struct {
	Name                 string  `yaml:"name"`
	Description          *string `yaml:"description"`
	Latitude             float64 `yaml:"latitude"`
	Longitude            float64 `yaml:"longitude"`
	Address              *string `yaml:"address"`
	City                 *string `yaml:"city"`
	Country              *string `yaml:"country"`
	RealWorldInspiration *string `yaml:"real_world_inspiration"`
}

// Campaign is keyed by (author, title)
type Campaign struct {
	Title       string  `yaml:"title"`
	Author      string  `yaml:"author"`
	Description *string `yaml:"description"`
	Private     bool    `yaml:"private"`
}

// Quest is keyed by (author, name). Its references name other entries.
type Quest struct {
	Name          string   `yaml:"name"`
	Author        string   `yaml:"author"`
	Campaign      *string  `yaml:"campaign"`
	Synopsis      string   `yaml:"synopsis"`
	Itinerary     string   `yaml:"itinerary"`
	StartLocation string   `yaml:"start_location"`
	Destination   *string  `yaml:"destination"`
	QuestType     string   `yaml:"quest_type"`
	Difficulty    string   `yaml:"difficulty"`
	Interest      string   `yaml:"interest"`
	Private       bool     `yaml:"private"`
	Completed     bool     `yaml:"completed"`
	Tags          *string  `yaml:"tags"`
	QuestGiver    *string  `yaml:"quest_giver"`
	Reward        *string  `yaml:"reward"`
	MediaURLs     []string `yaml:"media_urls"`
}

// Sample returns the embedded sample data set
func Sample() (*Data, error) {
	return Parse(sample)
}

// LoadFile reads a seed set from path
func LoadFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and checks a seed set. Unknown keys are rejected.
func Parse(raw []byte) (*Data, error) {
	var data Data
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Validate checks that every cross reference names an entry in the set
func (d *Data) Validate() error {
	var errs []error

	users := keys(d.Users, func(u User) string { return u.Email })
	locations := keys(d.Locations, func(l Location) string { return l.Name })
	campaigns := keys(d.Campaigns, func(c Campaign) string { return c.Author + "\x00" + c.Title })
	questTypes := keys(d.QuestTypes, ident)
	difficulties := keys(d.Difficulties, ident)
	interests := keys(d.Interests, ident)

	for _, u := range d.Users {
		if u.Email == "" || u.Password == "" {
			errs = append(errs, fmt.Errorf("user %q: email and password are required", u.DisplayName))
		}
	}
	for _, c := range d.Campaigns {
		if !users[c.Author] {
			errs = append(errs, fmt.Errorf("campaign %q: unknown author %q", c.Title, c.Author))
		}
	}
	for _, q := range d.Quests {
		check := func(ok bool, what, name string) {
			if !ok {
				errs = append(errs, fmt.Errorf("quest %q: unknown %s %q", q.Name, what, name))
			}
		}
		check(users[q.Author], "author", q.Author)
		check(locations[q.StartLocation], "start_location", q.StartLocation)
		if q.Destination != nil {
			check(locations[*q.Destination], "destination", *q.Destination)
		}
		if q.Campaign != nil {
			check(campaigns[q.Author+"\x00"+*q.Campaign], "campaign of this author", *q.Campaign)
		}
		check(questTypes[q.QuestType], "quest_type", q.QuestType)
		check(difficulties[q.Difficulty], "difficulty", q.Difficulty)
		check(interests[q.Interest], "interest", q.Interest)
	}

	return errors.Join(errs...)
}

func ident(s string) string { return s }

func keys[T any](items []T, key func(T) string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[key(item)] = true
	}
	return set
}
