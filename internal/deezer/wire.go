package deezer

// searchResponse тело ответа GET /search
type searchResponse struct {
	Data  []deezerTrack `json:"data"`
	Total int           `json:"total"`
	Next  string        `json:"next,omitempty"`
	Prev  string        `json:"prev,omitempty"`
	Error *apiError     `json:"error,omitempty"`
}

type deezerTrack struct {
	ID       int64        `json:"id"`
	Title    string       `json:"title"`
	Duration int          `json:"duration"`
	Preview  string       `json:"preview"`
	Album    deezerAlbum  `json:"album"`
	Artist   deezerArtist `json:"artist"`
}

type deezerAlbum struct {
	Title       string `json:"title"`
	CoverMedium string `json:"cover_medium"`
}

type deezerArtist struct {
	Name string `json:"name"`
}

// apiError ошибка, которую Deezer возвращает в теле ответа с кодом 200
type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
