package model

import (
	"regexp"
	"strconv"
	"strings"

	"yt-podcast-bot/internal/domain"
)

// JobKeyPrefix is shared by job record keys and the broker list that carries them.
const JobKeyPrefix = "yt_processing"

var youTubeURLRe = regexp.MustCompile(`(?:https?://)?(?:youtu\.be/|(?:www\.|m\.)?youtube\.com/(?:watch|v|embed)(?:\.php)?(?:\?.*v=|/))([a-zA-Z0-9_-]+)`)

// Job is one "fetch this link for this user, deliver it to this chat" unit of work.
// The ID is assigned by the job store on admission and increases monotonically.
type Job struct {
	ID     int64
	UserID int64
	ChatID int64
	URL    string
}

func NewJob(userID, chatID int64, url string) (*Job, error) {
	if userID == 0 || chatID == 0 {
		return nil, domain.ErrInvalidArgument
	}
	url = strings.TrimSpace(url)
	if !IsYouTubeURL(url) {
		return nil, domain.ErrInvalidURL
	}
	return &Job{UserID: userID, ChatID: chatID, URL: url}, nil
}

// Key returns the store key of the job record, e.g. "yt_processing:42".
func (j *Job) Key() string { return JobKey(j.ID) }

func JobKey(id int64) string {
	return JobKeyPrefix + ":" + strconv.FormatInt(id, 10)
}

// ParseJobKey extracts the job id from a key produced by JobKey.
func ParseJobKey(key string) (int64, error) {
	raw, ok := strings.CutPrefix(key, JobKeyPrefix+":")
	if !ok {
		return 0, domain.ErrInvalidArgument
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidArgument
	}
	return id, nil
}

// IsYouTubeURL reports whether s contains a youtube.com or youtu.be video link.
func IsYouTubeURL(s string) bool {
	return youTubeURLRe.MatchString(s)
}
