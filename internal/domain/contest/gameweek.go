package contest

// RolloverIfNeeded resets per-gameweek counters exactly once per gameweek
// transition. Calling it again within the same gameweek is a no-op, so it is
// safe to run opportunistically on every mutation path.
func RolloverIfNeeded(st State, currentGameweek int, rules Rules) State {
	out := st.Clone()
	out.CurrentGameweek = currentGameweek
	if st.LastTransferGameweek == currentGameweek {
		return out
	}

	out.FreeTransfers = rules.FreeTransfersPerGameweek
	out.GameweekPenalty = 0
	out.LastTransferGameweek = currentGameweek
	return out
}
