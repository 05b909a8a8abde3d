package messages

import (
	"kindling/internal/api"
	"kindling/internal/store"
)

// View transition messages.
type (
	// OpenItemMsg navigates to the comment view for an item. A nonzero
	// ScrollTo deep-links a specific comment inside the thread.
	OpenItemMsg struct {
		ItemID   int
		ScrollTo int
	}
	GoBackMsg       struct{}
	SwitchTabMsg    struct{ StoryType api.StoryType }
	OpenSearchMsg   struct{}
	OpenLiveMsg     struct{}
	OpenSavedMsg    struct{}
	OpenFollowsMsg  struct{}
	OpenSettingsMsg struct{}
	OpenUserMsg     struct{ Username string }
)

// Data messages.
type (
	StoriesLoadedMsg struct {
		StoryType api.StoryType
		Items     []*api.Item
		// Stale marks a list served from cache because the network
		// fetch failed.
		Stale bool
		Err   error
	}

	// ThreadUpdatedMsg reports that a background load on the comment
	// session finished. Seq ties the result to the view generation that
	// started it; stale results are dropped.
	ThreadUpdatedMsg struct {
		Seq int
		Err error
	}

	// UnreadMsg carries the total unread submission count across all
	// followed users.
	UnreadMsg struct {
		Total int
	}

	// FollowChangedMsg reports a follow or unfollow so open views can
	// refresh their badges.
	FollowChangedMsg struct {
		Username  string
		Following bool
	}

	// SettingsChangedMsg reports a saved preference edit so open views
	// can apply it without a restart.
	SettingsChangedMsg struct {
		Settings store.Settings
	}

	StatusMsg struct {
		Text    string
		IsError bool
	}
)
