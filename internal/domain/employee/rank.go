package employee

// RankLadder is the ordered sequence of civil-service grades.
var RankLadder = []string{
	"II.a", "II.b", "II.c", "II.d",
	"III.a", "III.b", "III.c", "III.d",
	"IV.a", "IV.b", "IV.c", "IV.d", "IV.e",
}

// NextRank returns the successor of current on the ladder. The top grade and
// labels that are not on the ladder are returned unchanged.
func NextRank(current string) string {
	for i, r := range RankLadder {
		if r == current {
			if i == len(RankLadder)-1 {
				return current
			}
			return RankLadder[i+1]
		}
	}
	return current
}
