package deezer

import (
	"strings"

	"github.com/hazadus/worship/internal/data"
)

func mapTrack(dt deezerTrack) data.Track {
	return data.Track{
		ID:              dt.ID,
		Title:           strings.TrimSpace(dt.Title),
		ArtistName:      strings.TrimSpace(dt.Artist.Name),
		AlbumTitle:      strings.TrimSpace(dt.Album.Title),
		DurationSeconds: max(0, dt.Duration),
		PreviewURI:      strings.TrimSpace(dt.Preview),
		CoverURI:        strings.TrimSpace(dt.Album.CoverMedium),
	}
}

func mapPage(resp searchResponse) *data.Page {
	tracks := make([]data.Track, 0, len(resp.Data))
	for _, dt := range resp.Data {
		tracks = append(tracks, mapTrack(dt))
	}

	// Deezer иногда не присылает total, тогда считаем по полученным трекам
	total := resp.Total
	if total < len(tracks) {
		total = len(tracks)
	}
	return &data.Page{Tracks: tracks, Total: total}
}
