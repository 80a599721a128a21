package i18n

var deDEMessages = map[Code]string{
	CodeUnknown:              "Ein unerwarteter Fehler ist aufgetreten.",
	CodeInvalidPlayerList:    "Ein Spiel braucht mindestens einen Spieler und jeder Name muss eindeutig sein.",
	CodeInvalidDiceSelection: "Du kannst nur Würfel behalten, die auf dem Tisch liegen.",
	CodeCategoryAlreadyUsed:  "{{.Player}} hat {{.Category}} bereits eingetragen.",
	CodeInvalidCategory:      "{{.Category}} ist keine Wertungskategorie.",
	CodeInvalidPhase:         "Dieser Zug ist in der Phase {{.Phase}} nicht erlaubt.",
	CodePlayerNotFound:       "Der aktuelle Spieler wurde nicht gefunden.",
	CodeInvalidSnapshot:      "Das gespeicherte Spiel ist beschädigt.",
	CodeGameNotFound:         "Spiel {{.GameID}} existiert nicht.",
	CodeGameConflict:         "Das Spiel wurde während deines Zuges verändert. Bitte versuche es erneut.",
	CodeInvalidFilter:        "Der Filterausdruck ist ungültig.",
}
