package models

import (
	"reflect"
	"testing"
)

func TestTrackRecordValidate(t *testing.T) {
	valid := TrackRecord{Title: "Bohemian Rhapsody", PrimaryArtist: "Queen", VideoID: "fJ9rUzIMcZQ"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid record failed validation: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*TrackRecord)
	}{
		{"missing title", func(r *TrackRecord) { r.Title = "" }},
		{"missing artist", func(r *TrackRecord) { r.PrimaryArtist = "" }},
		{"missing video id", func(r *TrackRecord) { r.VideoID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := valid
			tt.mutate(&record)
			if err := record.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestArtistNames(t *testing.T) {
	full := TrackRecord{PrimaryArtist: "Queen", Artists: []string{"Queen", "David Bowie"}}
	if got := full.ArtistNames(); !reflect.DeepEqual(got, []string{"Queen", "David Bowie"}) {
		t.Errorf("ArtistNames() = %v", got)
	}

	solo := TrackRecord{PrimaryArtist: "Queen"}
	if got := solo.ArtistNames(); !reflect.DeepEqual(got, []string{"Queen"}) {
		t.Errorf("ArtistNames() fallback = %v", got)
	}
}

func TestNewIndexDocument(t *testing.T) {
	track := TrackRecord{Title: "Bohemian Rhapsody", PrimaryArtist: "Queen", VideoID: "fJ9rUzIMcZQ"}
	key := "3fa1b2c3/Bohemian Rhapsody.webm"

	doc := NewIndexDocument(track, key, "s3://bucket/"+key)

	if doc.ID != key {
		t.Errorf("doc id = %q, want storage key", doc.ID)
	}
	if doc.Title != track.Title {
		t.Errorf("doc title = %q", doc.Title)
	}
	if !reflect.DeepEqual(doc.Artists, []string{"Queen"}) {
		t.Errorf("doc artists = %v", doc.Artists)
	}
	if doc.StoragePath != "s3://bucket/3fa1b2c3/Bohemian Rhapsody.webm" {
		t.Errorf("doc storage path = %q", doc.StoragePath)
	}
}

func TestAcquisitionTrack(t *testing.T) {
	acq := Acquisition{
		StorageKey: "uuid/song.webm",
		Title:      "Song",
		Artists:    []string{"A", "B"},
		Album:      "LP",
		VideoID:    "vid",
	}

	track := acq.Track()
	if track.PrimaryArtist != "A" {
		t.Errorf("primary artist = %q", track.PrimaryArtist)
	}
	if track.Title != "Song" || track.VideoID != "vid" || track.Album != "LP" {
		t.Errorf("unexpected track: %+v", track)
	}
}
