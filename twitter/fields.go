package twitter

import "net/url"

// Expansions and fields requested on every lookup so returned objects are complete.
const (
	TweetExpansions       = "attachments.poll_ids,attachments.media_keys,author_id,geo.place_id,in_reply_to_user_id,referenced_tweets.id,entities.mentions.username,referenced_tweets.id.author_id"
	SpaceExpansions       = "invited_user_ids,speaker_ids,creator_id,host_ids,topic_ids"
	ListExpansions        = "owner_id"
	PinnedTweetExpansions = "pinned_tweet_id"

	TweetFields = "attachments,author_id,context_annotations,conversation_id,created_at,geo,entities,in_reply_to_user_id,lang,possibly_sensitive,public_metrics,referenced_tweets,reply_settings,source,text,withheld"
	UserFields  = "created_at,description,entities,id,location,name,profile_image_url,protected,public_metrics,url,username,verified,withheld,pinned_tweet_id"
	SpaceFields = "host_ids,created_at,creator_id,id,lang,invited_user_ids,participant_count,speaker_ids,started_at,state,title,updated_at,scheduled_start,is_ticketed,topic_ids,subscriber_count"
	MediaFields = "duration_ms,height,media_key,preview_image_url,public_metrics,type,url,width"
	PlaceFields = "contained_within,country,country_code,full_name,geo,id,name,place_type"
	PollFields  = "duration_minutes,end_datetime,id,options,voting_status"
	TopicFields = "id,name,description"
	ListFields  = "created_at,follower_count,member_count,private,description,owner_id"
)

func tweetQuery() url.Values {
	q := url.Values{}
	q.Set("expansions", TweetExpansions)
	q.Set("tweet.fields", TweetFields)
	q.Set("user.fields", UserFields)
	q.Set("media.fields", MediaFields)
	q.Set("place.fields", PlaceFields)
	q.Set("poll.fields", PollFields)
	return q
}

func userQuery() url.Values {
	q := url.Values{}
	q.Set("expansions", PinnedTweetExpansions)
	q.Set("user.fields", UserFields)
	q.Set("tweet.fields", TweetFields)
	return q
}

func spaceQuery() url.Values {
	q := url.Values{}
	q.Set("expansions", SpaceExpansions)
	q.Set("space.fields", SpaceFields)
	q.Set("user.fields", UserFields)
	q.Set("topic.fields", TopicFields)
	return q
}

func listQuery() url.Values {
	q := url.Values{}
	q.Set("expansions", ListExpansions)
	q.Set("list.fields", ListFields)
	q.Set("user.fields", UserFields)
	return q
}
