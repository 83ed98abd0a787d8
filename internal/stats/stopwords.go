package stats

import "strings"

// stopwords are dropped from theme extraction. Besides common English
// function words this covers chat filler that says nothing about the day.
var stopwords = func() map[string]bool {
	words := `
		the and but for nor yet not only also just than then when where why how
		because while although though unless until whether
		me my myself you your yours yourself him his himself her hers herself
		its itself our ours ourselves they them their theirs themselves
		this that these those what which who whom
		are was were been being have has had having does did doing done
		will would shall should can could may might must
		get got getting goes going went gone make made making take took taken
		come came coming see saw seen know knew known think thought
		want wanted need needed try tried use used find found give gave
		tell told say said let lets put keep kept start started seem seemed
		feel felt feeling look looked
		about into over after before between under again out off down through
		during without around among along across from with
		all each every any some none few many much more most less least
		other another such same very really quite too always never often
		sometimes usually already still even now here there well back way
		yes okay like thing things time day days week weeks month months year years
		first last next new old little big long right left own part lot
		something nothing everything anything someone anyone everyone
		maybe probably actually basically kinda sorta pretty gonna wanna
		today tonight tomorrow yesterday morning afternoon evening night
		dont didnt doesnt cant couldnt wont wouldnt isnt wasnt arent ive youre thats theres
		lol haha omg idk tbh
	`
	set := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		set[w] = true
	}
	return set
}()

func isStopword(word string) bool {
	return stopwords[word]
}
