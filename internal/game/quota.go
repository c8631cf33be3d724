package game

// Quota is the number of regular questions each of playerCount players may answer.
func Quota(totalQuestions, playerCount int) int {
	if playerCount <= 0 || totalQuestions <= 0 {
		return 0
	}
	return totalQuestions / playerCount
}

// TieBreakerSet returns the last totalQuestions mod playerCount question numbers,
// highest first.
func TieBreakerSet(totalQuestions, playerCount int) []int {
	if playerCount <= 0 || totalQuestions <= 0 {
		return []int{}
	}
	remaining := totalQuestions % playerCount
	out := make([]int, remaining)
	for i := 0; i < remaining; i++ {
		out[i] = totalQuestions - i
	}
	return out
}

func isTieBreaker(totalQuestions, playerCount, q int) bool {
	if playerCount <= 0 || q > totalQuestions {
		return false
	}
	return q > totalQuestions-totalQuestions%playerCount
}
