package dashboard

import (
	"context"

	"github.com/devsstudio/skillsview/request"
	"github.com/devsstudio/skillsview/response"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one upstream call.
type Result struct {
	Envelope response.Envelope
	Err      error
}

// Failure returns the message to show for a failed section, or "" when the
// call succeeded.
func (r Result) Failure() string {
	switch {
	case r.Err != nil:
		return r.Err.Error()
	case !r.Envelope.Success:
		if r.Envelope.Error != "" {
			return r.Envelope.Error
		}
		return "unknown error"
	}
	return ""
}

type Sections struct {
	Users    Result
	Licenses Result
}

// FetchAll requests users and licenses at the same time. Each call records its
// own outcome; a failure in one never cancels the other.
func FetchAll(ctx context.Context, c *Client, req request.UsersRequest) Sections {
	var (
		s Sections
		g errgroup.Group
	)

	g.Go(func() error {
		s.Users.Envelope, s.Users.Err = c.Get(ctx, "/users?"+req.Values().Encode())
		return nil
	})
	g.Go(func() error {
		s.Licenses.Envelope, s.Licenses.Err = c.Get(ctx, "/licenses")
		return nil
	})
	_ = g.Wait()

	return s
}
