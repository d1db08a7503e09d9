package twitter

import (
	"encoding/json"
	"sort"
	"strings"
)

// Includes carries the objects a v2 response expanded.
type Includes struct {
	Users  []User  `json:"users,omitempty"`
	Tweets []Tweet `json:"tweets,omitempty"`
	Media  []Media `json:"media,omitempty"`
	Polls  []Poll  `json:"polls,omitempty"`
	Places []Place `json:"places,omitempty"`
	Topics []Topic `json:"topics,omitempty"`
}

// response is the v2 envelope. hasData distinguishes a missing or null
// "data" member from an empty one.
type response[T any] struct {
	Data     T
	Includes Includes
	Meta     Meta
	Errors   []Problem
	hasData  bool
}

func (r *response[T]) UnmarshalJSON(b []byte) error {
	var env struct {
		Data     json.RawMessage `json:"data"`
		Includes Includes        `json:"includes"`
		Meta     Meta            `json:"meta"`
		Errors   []Problem       `json:"errors"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}

	r.Includes = env.Includes
	r.Meta = env.Meta
	r.Errors = env.Errors
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	r.hasData = true
	return json.Unmarshal(env.Data, &r.Data)
}

// includeIndex looks up expanded objects by id.
type includeIndex struct {
	users     map[string]*User
	usernames map[string]*User
	tweets    map[string]*Tweet
	media     map[string]*Media
	polls     map[string]*Poll
	places    map[string]*Place
	topics    map[string]*Topic
}

func newIncludeIndex(inc *Includes) *includeIndex {
	idx := &includeIndex{
		users:     make(map[string]*User, len(inc.Users)),
		usernames: make(map[string]*User, len(inc.Users)),
		tweets:    make(map[string]*Tweet, len(inc.Tweets)),
		media:     make(map[string]*Media, len(inc.Media)),
		polls:     make(map[string]*Poll, len(inc.Polls)),
		places:    make(map[string]*Place, len(inc.Places)),
		topics:    make(map[string]*Topic, len(inc.Topics)),
	}
	for i := range inc.Users {
		u := &inc.Users[i]
		idx.users[u.ID] = u
		idx.usernames[strings.ToLower(u.Username)] = u
	}
	for i := range inc.Tweets {
		idx.tweets[inc.Tweets[i].ID] = &inc.Tweets[i]
	}
	for i := range inc.Media {
		idx.media[inc.Media[i].MediaKey] = &inc.Media[i]
	}
	for i := range inc.Polls {
		p := &inc.Polls[i]
		sortPollOptions(p)
		idx.polls[p.ID] = p
	}
	for i := range inc.Places {
		idx.places[inc.Places[i].ID] = &inc.Places[i]
	}
	for i := range inc.Topics {
		idx.topics[inc.Topics[i].ID] = &inc.Topics[i]
	}
	return idx
}

func sortPollOptions(p *Poll) {
	sort.SliceStable(p.Options, func(i, j int) bool {
		return p.Options[i].Position < p.Options[j].Position
	})
}

// tweet attaches author, media, poll, place and mentioned users. Anything
// absent from includes is left nil.
func (idx *includeIndex) tweet(t *Tweet) {
	if u, ok := idx.users[t.AuthorID]; ok {
		t.Author = u
	}
	if t.Attachments != nil {
		for _, key := range t.Attachments.MediaKeys {
			if m, ok := idx.media[key]; ok {
				t.Media = append(t.Media, *m)
			}
		}
		for _, id := range t.Attachments.PollIDs {
			if p, ok := idx.polls[id]; ok {
				t.Poll = p
				break
			}
		}
	}
	if t.Geo != nil {
		if p, ok := idx.places[t.Geo.PlaceID]; ok {
			t.Place = p
		}
	}
	if t.Entities != nil {
		for _, m := range t.Entities.Mentions {
			u, ok := idx.users[m.ID]
			if !ok {
				u, ok = idx.usernames[strings.ToLower(m.Username)]
			}
			if ok {
				t.Mentions = append(t.Mentions, u)
			}
		}
	}
}

func (idx *includeIndex) user(u *User) {
	if u.PinnedTweetID == "" {
		return
	}
	if t, ok := idx.tweets[u.PinnedTweetID]; ok {
		u.PinnedTweet = t
	}
}

func (idx *includeIndex) space(s *Space) {
	if u, ok := idx.users[s.CreatorID]; ok {
		s.Creator = u
	}
	for _, id := range s.TopicIDs {
		if t, ok := idx.topics[id]; ok {
			s.Topics = append(s.Topics, *t)
		}
	}
}

func (idx *includeIndex) list(l *List) {
	if u, ok := idx.users[l.OwnerID]; ok {
		l.Owner = u
	}
}

func resolveTweets(inc *Includes, tweets []Tweet) {
	idx := newIncludeIndex(inc)
	for i := range tweets {
		idx.tweet(&tweets[i])
	}
}

func resolveUsers(inc *Includes, users []User) {
	idx := newIncludeIndex(inc)
	for i := range users {
		idx.user(&users[i])
	}
}

func resolveSpaces(inc *Includes, spaces []Space) {
	idx := newIncludeIndex(inc)
	for i := range spaces {
		idx.space(&spaces[i])
	}
}

func resolveLists(inc *Includes, lists []List) {
	idx := newIncludeIndex(inc)
	for i := range lists {
		idx.list(&lists[i])
	}
}
