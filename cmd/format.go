package cmd

import (
	"fmt"
	"strings"

	"github.com/s0up4200/chirp/twitter"
	"github.com/s0up4200/chirp/webhook"
)

const dateFormat = "2006-01-02 15:04"

// FormatOptions controls how much detail is printed per entry
type FormatOptions struct {
	ShowDetails bool
	// Numbered prefixes entries with their 1-based position for selection prompts.
	Numbered bool
}

// ConsoleFormatter provides console output formatting for API objects
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// branch returns the tree prefix and the indent for the lines below it
func branch(isLast bool) (string, string) {
	if isLast {
		return "╰", "    "
	}
	return "├", "│   "
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// FormatTweetList formats a list of tweets for console display
func (f *ConsoleFormatter) FormatTweetList(tweets []twitter.Tweet, options FormatOptions) string {
	if len(tweets) == 0 {
		return "No tweets found"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s (%d):\n\n", plural(len(tweets), "Tweet"), len(tweets))

	for i, tweet := range tweets {
		isLast := i == len(tweets)-1
		label := ""
		if options.Numbered {
			label = fmt.Sprintf("[%d] ", i+1)
		}
		f.formatTweet(&sb, tweet, label, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

func (f *ConsoleFormatter) formatTweet(sb *strings.Builder, tweet twitter.Tweet, label string, isLast bool, options FormatOptions) {
	prefix, indent := branch(isLast)

	author := tweet.AuthorID
	if tweet.Author != nil {
		author = tweet.Author.Mention()
	}
	fmt.Fprintf(sb, "%s── %s%s %s\n", prefix, label, author, tweet.ID)

	for _, line := range strings.Split(tweet.Text, "\n") {
		fmt.Fprintf(sb, "%s%s\n", indent, line)
	}

	m := tweet.PublicMetrics
	stats := fmt.Sprintf("♥ %d  ↻ %d  ↩ %d", m.LikeCount, m.RetweetCount, m.ReplyCount)
	if !tweet.CreatedAt.IsZero() {
		stats = tweet.CreatedAt.Local().Format(dateFormat) + "  " + stats
	}
	fmt.Fprintf(sb, "%s%s\n", indent, stats)

	if !options.ShowDetails {
		return
	}

	var kinds []string
	if tweet.IsReply() {
		kinds = append(kinds, "reply to "+tweet.RepliedToID())
	}
	if tweet.IsRetweet() {
		kinds = append(kinds, "retweet")
	}
	if tweet.IsQuote() {
		kinds = append(kinds, "quote")
	}
	if len(kinds) > 0 {
		fmt.Fprintf(sb, "%sType: %s\n", indent, strings.Join(kinds, ", "))
	}

	if tags := tweet.Hashtags(); len(tags) > 0 {
		fmt.Fprintf(sb, "%sHashtags: #%s\n", indent, strings.Join(tags, " #"))
	}

	for _, media := range tweet.Media {
		url := media.URL
		if url == "" {
			url = media.PreviewImageURL
		}
		fmt.Fprintf(sb, "%sMedia: %s %s\n", indent, media.Type, url)
	}

	if tweet.Poll != nil {
		fmt.Fprintf(sb, "%sPoll (%s):\n", indent, tweet.Poll.VotingStatus)
		for _, opt := range tweet.Poll.Options {
			fmt.Fprintf(sb, "%s  - %s: %d\n", indent, opt.Label, opt.Votes)
		}
	}

	if tweet.Place != nil {
		fmt.Fprintf(sb, "%sPlace: %s\n", indent, tweet.Place.FullName)
	}

	fmt.Fprintf(sb, "%s%s\n", indent, tweet.URL())
}

// FormatUserList formats a list of users for console display
func (f *ConsoleFormatter) FormatUserList(users []twitter.User) string {
	if len(users) == 0 {
		return "No users found"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s (%d):\n\n", plural(len(users), "User"), len(users))

	for i, user := range users {
		isLast := i == len(users)-1
		prefix, indent := branch(isLast)

		fmt.Fprintf(&sb, "%s── %s (%s)\n", prefix, user.Mention(), user.Name)
		fmt.Fprintf(&sb, "%sFollowers: %d | Following: %d\n", indent,
			user.PublicMetrics.FollowersCount, user.PublicMetrics.FollowingCount)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatUser formats a single user profile
func (f *ConsoleFormatter) FormatUser(user twitter.User) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%s (%s)", user.Mention(), user.Name)
	var flags []string
	if user.Verified {
		flags = append(flags, "VERIFIED")
	}
	if user.Protected {
		flags = append(flags, "PROTECTED")
	}
	for _, flag := range flags {
		fmt.Fprintf(&sb, " [%s]", flag)
	}
	sb.WriteString("\n")

	var lines []string
	lines = append(lines, "ID: "+user.ID)
	if user.Description != "" {
		lines = append(lines, "Bio: "+strings.ReplaceAll(user.Description, "\n", " "))
	}
	if user.Location != "" {
		lines = append(lines, "Location: "+user.Location)
	}
	m := user.PublicMetrics
	lines = append(lines, fmt.Sprintf("Followers: %d | Following: %d | Tweets: %d | Listed: %d",
		m.FollowersCount, m.FollowingCount, m.TweetCount, m.ListedCount))
	if !user.CreatedAt.IsZero() {
		lines = append(lines, "Joined: "+user.CreatedAt.Format("2006-01-02"))
	}
	if user.PinnedTweet != nil {
		lines = append(lines, "Pinned: "+firstLine(user.PinnedTweet.Text))
	}
	lines = append(lines, user.ProfileURL())

	for i, line := range lines {
		prefix, _ := branch(i == len(lines)-1)
		fmt.Fprintf(&sb, "%s── %s\n", prefix, line)
	}

	return sb.String()
}

// FormatMessages formats direct messages, oldest last as returned by the API
func (f *ConsoleFormatter) FormatMessages(messages []twitter.Message) string {
	if len(messages) == 0 {
		return "No direct messages found"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s (%d):\n\n", plural(len(messages), "Message"), len(messages))

	for i, msg := range messages {
		isLast := i == len(messages)-1
		prefix, indent := branch(isLast)

		fmt.Fprintf(&sb, "%s── %s → %s", prefix, participant(msg.Sender, msg.SenderID), participant(msg.Recipient, msg.RecipientID))
		if !msg.CreatedAt.IsZero() {
			fmt.Fprintf(&sb, " (%s)", msg.CreatedAt.Local().Format(dateFormat))
		}
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%s%s\n", indent, msg.Text)
		if msg.MediaURL != "" {
			fmt.Fprintf(&sb, "%sMedia: %s\n", indent, msg.MediaURL)
		}
		for _, b := range msg.Buttons {
			fmt.Fprintf(&sb, "%s[%s] %s\n", indent, b.Label, b.URL)
		}

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatSpace formats a single space
func (f *ConsoleFormatter) FormatSpace(space twitter.Space) string {
	var sb strings.Builder

	title := space.Title
	if title == "" {
		title = space.ID
	}
	fmt.Fprintf(&sb, "\n%s [%s]\n", title, strings.ToUpper(string(space.State)))

	var lines []string
	if space.Creator != nil {
		lines = append(lines, "Host: "+space.Creator.Mention())
	}
	switch {
	case space.IsLive():
		lines = append(lines, fmt.Sprintf("Listening: %d", space.ParticipantCount))
		if !space.StartedAt.IsZero() {
			lines = append(lines, "Started: "+space.StartedAt.Local().Format(dateFormat))
		}
	case !space.ScheduledStart.IsZero():
		lines = append(lines, "Scheduled: "+space.ScheduledStart.Local().Format(dateFormat))
		lines = append(lines, fmt.Sprintf("Subscribers: %d", space.SubscriberCount))
	}
	if len(space.Topics) > 0 {
		names := make([]string, 0, len(space.Topics))
		for _, topic := range space.Topics {
			names = append(names, topic.Name)
		}
		lines = append(lines, "Topics: "+strings.Join(names, ", "))
	}
	if space.IsTicketed {
		lines = append(lines, "Ticketed")
	}
	lines = append(lines, "ID: "+space.ID)

	for i, line := range lines {
		prefix, _ := branch(i == len(lines)-1)
		fmt.Fprintf(&sb, "%s── %s\n", prefix, line)
	}

	return sb.String()
}

// FormatTrends formats the trends of one location
func (f *ConsoleFormatter) FormatTrends(list twitter.TrendList) string {
	if len(list.Trends) == 0 {
		return "No trends found"
	}

	var sb strings.Builder
	where := "Worldwide"
	if len(list.Locations) > 0 {
		where = list.Locations[0].Name
	}
	fmt.Fprintf(&sb, "\nTrends in %s", where)
	if !list.AsOf.IsZero() {
		fmt.Fprintf(&sb, " (%s)", list.AsOf.Local().Format(dateFormat))
	}
	sb.WriteString(":\n\n")

	for i, trend := range list.Trends {
		prefix, _ := branch(i == len(list.Trends)-1)
		fmt.Fprintf(&sb, "%s── %d. %s", prefix, i+1, trend.Name)
		if trend.TweetVolume != nil {
			fmt.Fprintf(&sb, " (%d %s)", *trend.TweetVolume, plural(*trend.TweetVolume, "tweet"))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatTrendLocations formats trend locations with their woeids
func (f *ConsoleFormatter) FormatTrendLocations(locations []twitter.TrendLocation) string {
	if len(locations) == 0 {
		return "No trend locations found"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s (%d):\n\n", plural(len(locations), "Location"), len(locations))
	for i, loc := range locations {
		prefix, _ := branch(i == len(locations)-1)
		name := loc.Name
		if loc.Country != "" && loc.Country != loc.Name {
			name += ", " + loc.Country
		}
		fmt.Fprintf(&sb, "%s── %s [%s] woeid %d\n", prefix, name, loc.PlaceType.Name, loc.WOEID)
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatPlaces formats geo places
func (f *ConsoleFormatter) FormatPlaces(places []twitter.Place) string {
	if len(places) == 0 {
		return "No places found"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s (%d):\n\n", plural(len(places), "Place"), len(places))
	for i, place := range places {
		prefix, _ := branch(i == len(places)-1)
		fmt.Fprintf(&sb, "%s── %s [%s] %s\n", prefix, place.FullName, place.PlaceType, place.ID)
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatSettings formats the account settings
func (f *ConsoleFormatter) FormatSettings(s twitter.AccountSettings) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n@%s\n", s.ScreenName)

	var lines []string
	lines = append(lines, "Language: "+s.Language)
	if tz := s.TimeZone; tz != nil {
		lines = append(lines, fmt.Sprintf("Time zone: %s (%s)", tz.Name, tz.TZInfoName))
	}
	if s.SleepTime.Enabled {
		lines = append(lines, fmt.Sprintf("Sleep time: %02d:00-%02d:00 UTC", s.SleepTime.StartTime, s.SleepTime.EndTime))
	} else {
		lines = append(lines, "Sleep time: off")
	}
	for _, loc := range s.TrendLocations {
		lines = append(lines, fmt.Sprintf("Trend location: %s (woeid %d)", loc.Name, loc.WOEID))
	}
	if s.AllowDMsFrom != "" {
		lines = append(lines, "Direct messages from: "+s.AllowDMsFrom)
	}
	if s.Protected {
		lines = append(lines, "Protected")
	}

	for i, line := range lines {
		prefix, _ := branch(i == len(lines)-1)
		fmt.Fprintf(&sb, "%s── %s\n", prefix, line)
	}
	return sb.String()
}

// FormatEvent formats an account activity event as one line
func (f *ConsoleFormatter) FormatEvent(ev webhook.Event) string {
	switch e := ev.(type) {
	case webhook.DirectMessageEvent:
		return fmt.Sprintf("[dm] %s: %s", participant(e.Message.Sender, e.Message.SenderID), e.Message.Text)
	case webhook.TypingEvent:
		return fmt.Sprintf("[typing] %s", participant(e.Sender, ""))
	case webhook.ReadEvent:
		line := fmt.Sprintf("[read] %s read up to %s", participant(e.Reader, ""), e.LastReadEventID)
		if e.LastRead != nil {
			line += fmt.Sprintf(" (%q)", firstLine(e.LastRead.Text))
		}
		return line
	case webhook.TweetCreateEvent:
		return fmt.Sprintf("[tweet] %s: %s", participant(e.Tweet.Author, e.Tweet.AuthorID), firstLine(e.Tweet.Text))
	case webhook.TweetDeleteEvent:
		line := fmt.Sprintf("[delete] %s", e.TweetID)
		if e.Tweet != nil {
			line += fmt.Sprintf(" (%q)", firstLine(e.Tweet.Text))
		}
		return line
	case webhook.FavoriteEvent:
		return fmt.Sprintf("[like] %s liked %s", e.Liker.Mention(), e.Tweet.ID)
	case webhook.UserActionEvent:
		return fmt.Sprintf("[%s] %s → %s", e.Action, e.Source.Mention(), e.Target.Mention())
	case webhook.RevokeEvent:
		return fmt.Sprintf("[revoke] user %s revoked app %s", e.UserID, e.AppID)
	default:
		return fmt.Sprintf("[%s]", ev.Kind())
	}
}

func participant(u *twitter.User, fallback string) string {
	if u != nil {
		return u.Mention()
	}
	if fallback == "" {
		return "unknown"
	}
	return fallback
}

func firstLine(s string) string {
	line, _, cut := strings.Cut(s, "\n")
	if cut {
		return line + "..."
	}
	return line
}
