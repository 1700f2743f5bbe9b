package classifier

// DefaultKeywords ключевые слова духовной музыки на английском и индонезийском
var DefaultKeywords = []string{
	"gospel", "worship", "christian", "spiritual", "praise", "hymn",
	"jesus", "christ", "god", "lord", "holy", "church", "prayer",
	"blessed", "faith", "salvation", "hallelujah", "alleluia", "amen",
	"divine", "sacred", "sanctuary", "temple", "grace", "mercy",
	"forgiveness", "redemption", "resurrection", "cross", "heaven",
	"angel", "miracle", "glory", "eternal", "spirit", "soul",
	"sing", "rejoice", "celebrate", "proclaim", "testify", "witness",
	"fellowship", "congregation", "ministry", "pastor", "priest",

	// Индонезийские
	"rohani", "pujian", "ibadah", "kristiani", "kristen", "yesus",
	"tuhan", "doa", "gereja", "injil", "kasih", "iman", "berkat",
}

// DefaultArtists исполнители, которые считаются духовными независимо от названий
var DefaultArtists = []string{
	"hillsong", "bethel", "elevation", "planetshakers", "jesus culture",
	"chris tomlin", "casting crowns", "mercyme", "skillet", "switchfoot",
	"third day", "newsboys", "kutless", "thousand foot krutch", "tobymac",
	"lecrae", "lauren daigle", "for king and country",
	"we came as romans", "august burns red", "as i lay dying",
	"demon hunter", "underoath",

	// Индонезийские
	"true worshippers", "symphony worship", "jpcc worship", "gms",
	"nikita", "franky sihombing", "giving my best", "agnus dei",
	"the overtunes", "sidney mohede", "sari simorangkir", "dewi sandra",
}

// QuerySuffix добавляется к запросу без ключевых слов
const QuerySuffix = " worship christian gospel spiritual"
