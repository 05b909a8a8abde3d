package render

import (
	"fmt"
	"time"
)

// TimeAgo formats a UNIX timestamp as a short relative time ("5m ago").
func TimeAgo(unix int64) string {
	return relTime(time.Unix(unix, 0), time.Now())
}

func relTime(then, now time.Time) string {
	if then.Unix() <= 0 {
		return ""
	}
	d := now.Sub(then)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%dmo ago", int(d.Hours()/(24*30)))
	default:
		return fmt.Sprintf("%dy ago", int(d.Hours()/(24*365)))
	}
}
