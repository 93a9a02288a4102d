package fallback

import "github.com/mcoot/gamehub/internal/catalog"

// demoGames is the fixed catalog shown when no backend answers
var demoGames = []catalog.DemoGame{
	{
		ID:              "HJXei0j",
		Name:            "Bubble Wipeout",
		Description:     "Bắn bong bóng cùng màu để xoá sạch màn chơi.",
		Thumbnail:       "https://static.gamezop.com/HJXei0j/square.png",
		Banner:          "https://static.gamezop.com/HJXei0j/cover.jpg",
		Category:        "puzzle",
		DurationSeconds: 300,
		Plays:           1_250_000,
	},
	{
		ID:              "HkTQJhTXqRS",
		Name:            "Cricket Gunda",
		Description:     "Đánh bóng thật xa và ghi thật nhiều điểm.",
		Thumbnail:       "https://static.gamezop.com/HkTQJhTXqRS/square.png",
		Banner:          "https://static.gamezop.com/HkTQJhTXqRS/cover.jpg",
		Category:        "sports",
		DurationSeconds: 420,
		Plays:           860_000,
	},
	{
		ID:              "Rt5ytrd0m",
		Name:            "Ninja Run",
		Description:     "Chạy, nhảy và né chướng ngại vật trên mái nhà.",
		Thumbnail:       "https://static.gamezop.com/Rt5ytrd0m/square.png",
		Banner:          "https://static.gamezop.com/Rt5ytrd0m/cover.jpg",
		Category:        "action",
		DurationSeconds: 240,
		Plays:           2_400_000,
	},
	{
		ID:              "UYiznUAya",
		Name:            "Turbo Racer",
		Description:     "Vượt qua đối thủ trên những cung đường tốc độ.",
		Thumbnail:       "https://static.gamezop.com/UYiznUAya/square.png",
		Banner:          "https://static.gamezop.com/UYiznUAya/cover.jpg",
		Category:        "racing",
		DurationSeconds: 360,
		Plays:           540_000,
	},
	{
		ID:              "ByQxJnp7qRB",
		Name:            "Tower Defense",
		Description:     "Xây tháp và bảo vệ vương quốc khỏi quân địch.",
		Thumbnail:       "https://static.gamezop.com/ByQxJnp7qRB/square.png",
		Banner:          "https://static.gamezop.com/ByQxJnp7qRB/cover.jpg",
		Category:        "strategy",
		DurationSeconds: 600,
		Plays:           95_000,
	},
}

// DemoGames returns a copy of the raw demo catalog records
func DemoGames() []catalog.DemoGame {
	out := make([]catalog.DemoGame, len(demoGames))
	copy(out, demoGames)
	return out
}
