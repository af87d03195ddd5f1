package matchers

import "strings"

// NormalizeSubreddit trims whitespace and any leading "r/" or "/r/" prefix.
func NormalizeSubreddit(name string) string {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "/r/"):
		name = name[3:]
	case strings.HasPrefix(lower, "r/"):
		name = name[2:]
	}
	return strings.Trim(name, "/ ")
}

// SubredditLabel is the display form used on posts.
func SubredditLabel(name string) string {
	return "r/" + NormalizeSubreddit(name)
}
