package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ReservationWindow is one side of a conflict: a resource and a half-open [Start, End) window
type ReservationWindow struct {
	ResourceID string
	Start      time.Time
	End        time.Time
}

// Equal compares windows by resource and instant, ignoring location
func (w ReservationWindow) Equal(o ReservationWindow) bool {
	return w.ResourceID == o.ResourceID && w.Start.Equal(o.Start) && w.End.Equal(o.End)
}

func (w ReservationWindow) String() string {
	return fmt.Sprintf("%s [%s, %s)", w.ResourceID, w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}

// ReservationConflict pairs the rejected reservation (New) with the one it collided with (Old)
type ReservationConflict struct {
	New ReservationWindow
	Old ReservationWindow
}

// Equal compares both windows
func (c ReservationConflict) Equal(o ReservationConflict) bool {
	return c.New.Equal(o.New) && c.Old.Equal(o.Old)
}

// ConflictInfo is either a parsed conflict or the raw diagnostic text it came from.
// Exactly one of Conflict and Raw is meaningful: Conflict != nil means parsed.
type ConflictInfo struct {
	Conflict *ReservationConflict
	Raw      string
}

// Parsed builds a parsed ConflictInfo
func Parsed(c ReservationConflict) ConflictInfo {
	return ConflictInfo{Conflict: &c}
}

// Unparsed keeps the diagnostic verbatim
func Unparsed(raw string) ConflictInfo {
	return ConflictInfo{Raw: raw}
}

// IsParsed returns true if the diagnostic was understood
func (i ConflictInfo) IsParsed() bool {
	return i.Conflict != nil
}

// Equal compares two conflict descriptions by value
func (i ConflictInfo) Equal(o ConflictInfo) bool {
	if i.IsParsed() != o.IsParsed() {
		return false
	}
	if i.IsParsed() {
		return i.Conflict.Equal(*o.Conflict)
	}
	return i.Raw == o.Raw
}

func (i ConflictInfo) String() string {
	if i.IsParsed() {
		return fmt.Sprintf("new %s conflicts with existing %s", i.Conflict.New, i.Conflict.Old)
	}
	return i.Raw
}

// Exclusion violation detail looks like
//
//	Key (resource_id, timespan)=(room-1, ["2022-12-26 22:00:00+00","2022-12-30 19:00:00+00")) conflicts with existing key (...)=(...)
//
// Each occurrence yields two keys and two values; the second value is the range body after '['.
var conflictKeyRe = regexp.MustCompile(`\((?P<k1>[a-zA-Z0-9_-]+)\s*,\s*(?P<k2>[a-zA-Z0-9_-]+)\)=\((?P<v1>[a-zA-Z0-9_-]+)\s*,\s*\[(?P<v2>[^\)\]]+)`)

// Offsets in the diagnostic come as +00, +0530 or +05:30 depending on the server
var diagnosticTimeLayouts = []string{
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05-0700",
	"2006-01-02 15:04:05-07:00",
}

const (
	conflictKeyResource = "resource_id"
	conflictKeyTimespan = "timespan"
)

// ParseConflictInfo turns an exclusion violation detail into a ConflictInfo.
// It never fails: anything it does not understand comes back as Unparsed(detail).
//
// Only resource ids made of ASCII letters, digits, '_' and '-' are recognized.
// Ids with '.', ':', '/', spaces or quoting (room.1, "a b") come back Unparsed
// with the raw detail kept intact.
func ParseConflictInfo(detail string) ConflictInfo {
	conflict, ok := parseConflict(detail)
	if !ok {
		return Unparsed(detail)
	}
	return Parsed(conflict)
}

func parseConflict(detail string) (ReservationConflict, bool) {
	matches := conflictKeyRe.FindAllStringSubmatch(detail, -1)
	if len(matches) != 2 {
		return ReservationConflict{}, false
	}

	windows := make([]ReservationWindow, 0, 2)
	for _, m := range matches {
		fields := map[string]string{
			m[conflictKeyRe.SubexpIndex("k1")]: m[conflictKeyRe.SubexpIndex("v1")],
			m[conflictKeyRe.SubexpIndex("k2")]: m[conflictKeyRe.SubexpIndex("v2")],
		}

		w, ok := windowFromFields(fields)
		if !ok {
			return ReservationConflict{}, false
		}
		windows = append(windows, w)
	}

	return ReservationConflict{New: windows[0], Old: windows[1]}, true
}

func windowFromFields(fields map[string]string) (ReservationWindow, bool) {
	rid, ok := fields[conflictKeyResource]
	if !ok || rid == "" {
		return ReservationWindow{}, false
	}

	timespan, ok := fields[conflictKeyTimespan]
	if !ok {
		return ReservationWindow{}, false
	}

	bounds := strings.SplitN(strings.ReplaceAll(timespan, `"`, ""), ",", 2)
	if len(bounds) != 2 {
		return ReservationWindow{}, false
	}

	start, ok := parseDiagnosticTime(bounds[0])
	if !ok {
		return ReservationWindow{}, false
	}
	end, ok := parseDiagnosticTime(bounds[1])
	if !ok {
		return ReservationWindow{}, false
	}

	return ReservationWindow{ResourceID: rid, Start: start, End: end}, true
}

func parseDiagnosticTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range diagnosticTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
