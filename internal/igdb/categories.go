package igdb

// MainGameTypeID is the game_type id of a plain main game, preferred when
// reconciling same-name catalog duplicates.
const MainGameTypeID = 0

// gameTypeNames is the fallback label table, used when the mirrored
// game_types snapshot is missing or does not cover an id.
var gameTypeNames = map[int64]string{
	0:  "Main Game",
	1:  "DLC / Add-on",
	2:  "Expansion",
	3:  "Bundle",
	4:  "Standalone Expansion",
	5:  "Mod",
	6:  "Episode",
	7:  "Season",
	8:  "Remake",
	9:  "Remaster",
	10: "Expanded Game",
	11: "Port",
	12: "Fork",
	13: "Pack",
	14: "Update",
}

// GameTypeName resolves a game_type id to its label, preferring the mirrored
// snapshot over the built-in table.
func GameTypeName(id int64, types []GameType) string {
	for _, gt := range types {
		if gt.ID == id {
			return gt.Type
		}
	}
	if name, ok := gameTypeNames[id]; ok {
		return name
	}
	return ""
}
