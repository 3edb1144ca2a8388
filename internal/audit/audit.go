// Package audit checks persisted state against the data model invariants.
//
// Snapshot import restores documents without looking inside them, so a
// restored store can hold anything. Check reports what it finds: errors
// for values the engine cannot safely operate on and warnings for
// dangling references, which the engine tolerates.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/starweeb/internal/engine"
	"github.com/roach88/starweeb/internal/model"
	"github.com/roach88/starweeb/internal/repo"
	"github.com/roach88/starweeb/internal/store"
	"github.com/roach88/starweeb/internal/validation"
)

// Severity grades a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding codes.
const (
	CodeUndecodable    = "UNDECODABLE"
	CodeSchema         = "SCHEMA"
	CodeDuplicateID    = "DUPLICATE_ID"
	CodeSlugFormat     = "SLUG_FORMAT"
	CodeSlugReserved   = "SLUG_RESERVED"
	CodeSlugDuplicate  = "SLUG_DUPLICATE"
	CodeMatchMalformed = "MATCH_MALFORMED"
	CodeMatchDuplicate = "MATCH_DUPLICATE"
	CodeCrushDuplicate = "CRUSH_DUPLICATE"
	CodeBlogTitle      = "BLOG_TITLE"
	CodeDanglingRef    = "DANGLING_REF"
)

// Finding is one audit result.
type Finding struct {
	Severity Severity `json:"severity"`
	Key      string   `json:"key"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s %s [%s] %s", f.Severity, f.Key, f.Code, f.Message)
}

// Report holds every finding in check order.
type Report struct {
	Findings []Finding `json:"findings"`
}

// Errors counts error findings.
func (r Report) Errors() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Warnings counts warning findings.
func (r Report) Warnings() int {
	return len(r.Findings) - r.Errors()
}

// OK reports whether there are no error findings.
func (r Report) OK() bool {
	return r.Errors() == 0
}

type checker struct {
	report Report
	// broken lists keys whose values failed structural checks; record
	// level checks skip them.
	broken map[string]bool
}

func (c *checker) add(sev Severity, key, code, format string, args ...any) {
	c.report.Findings = append(c.report.Findings, Finding{
		Severity: sev, Key: key, Code: code, Message: fmt.Sprintf(format, args...),
	})
}

// Check audits every snapshot key of a. The returned error is reserved for
// store failures; problems with the data are findings.
func Check(ctx context.Context, a store.Adapter) (Report, error) {
	sch, err := loadSchema()
	if err != nil {
		return Report{}, err
	}

	c := &checker{report: Report{Findings: []Finding{}}, broken: map[string]bool{}}

	for _, key := range store.SnapshotKeys() {
		raw, ok, err := a.Get(ctx, key)
		if err != nil {
			return Report{}, fmt.Errorf("audit %s: %w", key, err)
		}
		if !ok {
			continue
		}
		if !json.Valid([]byte(raw)) {
			c.add(SeverityError, key, CodeUndecodable, "stored value is not valid JSON")
			c.broken[key] = true
			continue
		}
		for _, msg := range sch.validate(key, raw) {
			c.add(SeverityError, key, CodeSchema, "%s", msg)
			c.broken[key] = true
		}
	}

	if err := c.records(ctx, repo.New(a)); err != nil {
		return Report{}, err
	}
	return c.report, nil
}

// list reads col unless its key is already known to be broken.
func list[T any](ctx context.Context, c *checker, col *repo.Collection[T]) ([]T, error) {
	if c.broken[col.Key()] {
		return nil, nil
	}
	items, err := col.List(ctx)
	var de *repo.DecodeError
	if errors.As(err, &de) {
		c.add(SeverityError, col.Key(), CodeUndecodable, "%v", de.Err)
		c.broken[col.Key()] = true
		return nil, nil
	}
	return items, err
}

func (c *checker) records(ctx context.Context, r *repo.Repositories) error {
	users, err := list(ctx, c, r.Users)
	if err != nil {
		return err
	}
	userIDs := c.checkUsers(users)
	known := func(id string) bool { return userIDs[id] }
	// Reference checks are meaningless without a readable user list.
	refs := !c.broken[store.KeyUsers]

	posts, err := list(ctx, c, r.Posts)
	if err != nil {
		return err
	}
	c.checkPosts(posts, refs, known)

	bulletins, err := list(ctx, c, r.Bulletins)
	if err != nil {
		return err
	}
	for _, b := range bulletins {
		c.ref(refs, known, store.KeyBulletins, "bulletin "+b.ID+" author", b.AuthorID)
	}

	threads, err := list(ctx, c, r.Forums)
	if err != nil {
		return err
	}
	for _, t := range threads {
		c.ref(refs, known, store.KeyForums, "thread "+t.ID+" author", t.AuthorID)
		for _, rep := range t.Replies {
			c.ref(refs, known, store.KeyForums, "reply "+rep.ID+" author", rep.AuthorID)
		}
	}

	photos, err := list(ctx, c, r.Photos)
	if err != nil {
		return err
	}
	for _, p := range photos {
		c.ref(refs, known, store.KeyPhotos, "photo "+p.ID+" owner", p.UserID)
	}

	groups, err := list(ctx, c, r.Groups)
	if err != nil {
		return err
	}
	for _, g := range groups {
		if g.OwnerID != engine.DefaultGroupOwner {
			c.ref(refs, known, store.KeyGroups, "group "+g.ID+" owner", g.OwnerID)
		}
		for _, m := range g.Members {
			c.ref(refs, known, store.KeyGroups, "group "+g.ID+" member", m)
		}
	}

	notes, err := list(ctx, c, r.Notifications)
	if err != nil {
		return err
	}
	for _, n := range notes {
		c.ref(refs, known, store.KeyNotifications, "notification "+n.ID+" recipient", n.UserID)
		if n.FromUserID != model.SystemSender {
			c.ref(refs, known, store.KeyNotifications, "notification "+n.ID+" sender", n.FromUserID)
		}
	}

	secrets, err := list(ctx, c, r.Secrets)
	if err != nil {
		return err
	}
	for _, s := range secrets {
		c.ref(refs, known, store.KeySecrets, "secret "+s.ID+" recipient", s.ToUserID)
	}

	questions, err := list(ctx, c, r.Questions)
	if err != nil {
		return err
	}
	for _, q := range questions {
		c.ref(refs, known, store.KeyQuestions, "question "+q.ID+" recipient", q.ToUserID)
	}

	crushes, err := list(ctx, c, r.Crushes)
	if err != nil {
		return err
	}
	c.checkCrushes(crushes, refs, known)

	matches, err := list(ctx, c, r.Matches)
	if err != nil {
		return err
	}
	c.checkMatches(matches, refs, known)
	return nil
}

func (c *checker) ref(enabled bool, known func(string) bool, key, what, id string) {
	if enabled && !known(id) {
		c.add(SeverityWarning, key, CodeDanglingRef, "%s %q does not exist", what, id)
	}
}

func (c *checker) checkUsers(users []model.User) map[string]bool {
	ids := make(map[string]bool, len(users))
	slugOwner := make(map[string]string)
	for _, u := range users {
		if ids[u.ID] {
			c.add(SeverityError, store.KeyUsers, CodeDuplicateID, "user id %q appears more than once", u.ID)
		}
		ids[u.ID] = true

		if u.CustomURL == "" {
			continue
		}
		switch err := validation.ValidateSlug(u.CustomURL); {
		case errors.Is(err, validation.ErrSlugFormat):
			c.add(SeverityError, store.KeyUsers, CodeSlugFormat, "user %s has malformed slug %q", u.ID, u.CustomURL)
		case errors.Is(err, validation.ErrSlugReserved):
			c.add(SeverityError, store.KeyUsers, CodeSlugReserved, "user %s has reserved slug %q", u.ID, u.CustomURL)
		}
		if owner, taken := slugOwner[u.CustomURL]; taken {
			c.add(SeverityError, store.KeyUsers, CodeSlugDuplicate, "slug %q is held by %s and %s", u.CustomURL, owner, u.ID)
		} else {
			slugOwner[u.CustomURL] = u.ID
		}
	}

	for _, u := range users {
		for _, f := range u.Friends {
			if !ids[f] {
				c.add(SeverityWarning, store.KeyUsers, CodeDanglingRef, "user %s friend %q does not exist", u.ID, f)
			}
		}
		for _, f := range u.Following {
			if !ids[f] {
				c.add(SeverityWarning, store.KeyUsers, CodeDanglingRef, "user %s follows missing user %q", u.ID, f)
			}
		}
	}
	return ids
}

func (c *checker) checkPosts(posts []model.Post, refs bool, known func(string) bool) {
	for _, p := range posts {
		hasTitle := p.Title != ""
		if (p.Type == model.PostBlog) != hasTitle {
			c.add(SeverityError, store.KeyPosts, CodeBlogTitle, "post %s has type %q but title present=%t", p.ID, p.Type, hasTitle)
		}
		c.ref(refs, known, store.KeyPosts, "post "+p.ID+" author", p.AuthorID)
		for _, l := range p.Likes {
			c.ref(refs, known, store.KeyPosts, "post "+p.ID+" like", l)
		}
		for _, cm := range p.Comments {
			c.ref(refs, known, store.KeyPosts, "comment "+cm.ID+" author", cm.AuthorID)
		}
	}
}

func (c *checker) checkCrushes(crushes []model.DatingCrush, refs bool, known func(string) bool) {
	seen := make(map[[2]string]bool, len(crushes))
	for _, cr := range crushes {
		k := [2]string{cr.FromID, cr.ToID}
		if seen[k] {
			c.add(SeverityError, store.KeyCrushes, CodeCrushDuplicate, "crush %s -> %s recorded more than once", cr.FromID, cr.ToID)
		}
		seen[k] = true
		c.ref(refs, known, store.KeyCrushes, "crush sender", cr.FromID)
		c.ref(refs, known, store.KeyCrushes, "crush target", cr.ToID)
	}
}

func (c *checker) checkMatches(matches []model.Match, refs bool, known func(string) bool) {
	seen := make(map[[2]string]string, len(matches))
	for _, m := range matches {
		a, b := m.UserIDs[0], m.UserIDs[1]
		if a == "" || b == "" || a == b {
			c.add(SeverityError, store.KeyMatches, CodeMatchMalformed, "match %s does not join two distinct users", m.ID)
			continue
		}
		pair := model.CanonicalPair(a, b)
		if first, dup := seen[pair]; dup {
			c.add(SeverityError, store.KeyMatches, CodeMatchDuplicate, "matches %s and %s join the same pair", first, m.ID)
		} else {
			seen[pair] = m.ID
		}
		for _, id := range []string{a, b} {
			c.ref(refs, known, store.KeyMatches, "match "+m.ID+" member", id)
		}
	}
}

// Codes returns the distinct finding codes of r, sorted.
func (r Report) Codes() []string {
	var codes []string
	for _, f := range r.Findings {
		if !slices.Contains(codes, f.Code) {
			codes = append(codes, f.Code)
		}
	}
	slices.Sort(codes)
	return codes
}
