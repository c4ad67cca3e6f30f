package types

// StateSnapshot:
//   lines: { [lineKey]: playerIndex }   // lineKey = "h-<r>-<c>" | "v-<r>-<c>"
//   boxes: [{ r: number, c: number, player: 0 | 1 }] // completion order
//   scores: [number, number]
//   currentPlayer: 0 | 1
//   status: "waiting" | "playing" | "finished"
//
// lineKey encoding must match the client exactly; both sides index claimed
// lines by it. scores[0] + scores[1] always equals boxes.length.
