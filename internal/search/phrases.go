package search

// TrendingPhrases проверенные запросы для подборки популярного
var TrendingPhrases = []string{
	"gospel worship",
	"christian praise",
	"spiritual hymn",
	"jesus worship",
	"christ praise",
	"holy spirit",
	"worship songs",
	"praise and worship",
	"christian music",
	"gospel music",
	"contemporary christian",
	"church songs",
	"hillsong worship",
	"bethel music",
	"elevation worship",
	"worship instrumental",
	"praise team",
	"christian rock",
	"rohani kristen",
	"lagu pujian",
	"musik worship",
	"lagu gereja",
	"praise indonesia",
	"worship indonesia",
}

// FallbackTemplates шаблоны запасного запроса, %s заменяется исходным запросом
var FallbackTemplates = []string{
	"gospel %s",
	"worship %s",
	"christian %s",
	"%s praise",
	"%s hymn",
}

const (
	DefaultSearchLimit      = 50
	DefaultFallbackLimit    = 30
	DefaultHighQualityLimit = 100
)

func emptySearchReason(query string) string {
	return "No spiritual songs found for \"" + query + "\". Try searching for gospel, worship, or christian music."
}

const emptyTrendingReason = "No spiritual songs available at the moment"
