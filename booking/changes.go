package booking

import (
	"github.com/r3labs/diff/v3"

	dbt "tourcab/db/db"
	"tourcab/mq/mq"
)

// changeSet lists the fields that differ between two versions of a booking.
// Fields tagged diff:"-" never show up.
func changeSet(before, after dbt.BookingInfo) ([]mq.Change, error) {
	cl, err := diff.Diff(before, after)
	if err != nil {
		return nil, err
	}
	var changes []mq.Change
	for _, c := range cl {
		changes = append(changes, mq.Change{Type: c.Type, Path: c.Path, From: c.From, To: c.To})
	}
	return changes, nil
}
