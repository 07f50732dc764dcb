package repository

import (
	"errors"
	"testing"
)

func TestDriverErrorClassification(t *testing.T) {
	dup := errors.New("Error 1062 (23000): Duplicate entry 'rider@example.com' for key 'users.email'")
	fk := errors.New("Error 1451 (23000): Cannot delete or update a parent row: a foreign key constraint fails (`bikerental`.`bookings`, CONSTRAINT `fk_bookings_bike` FOREIGN KEY (`bike_id`) REFERENCES `bikes` (`id`))")
	other := errors.New("driver: bad connection")

	if !isDuplicateEntry(dup) {
		t.Error("1062 not recognized as duplicate entry")
	}
	if isDuplicateEntry(fk) || isDuplicateEntry(other) || isDuplicateEntry(nil) {
		t.Error("duplicate entry matched a non-1062 error")
	}

	if !isForeignKeyRestricted(fk) {
		t.Error("1451 not recognized as restricted delete")
	}
	if isForeignKeyRestricted(dup) || isForeignKeyRestricted(other) || isForeignKeyRestricted(nil) {
		t.Error("restricted delete matched a non-1451 error")
	}
}
