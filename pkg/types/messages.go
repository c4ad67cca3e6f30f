package types

// Client -> Server (websocket, JSON text frames)
//
// move:
//   move: { type: "h" | "v", r: number, c: number }
//
// restart: {}
//
// Joining is not a message: the connection itself is the join. Query params
// on the /ws upgrade:
//   room:  optional room id; omitted mints a fresh room
//   token: optional stable player token; lets a refreshed client reclaim
//          its seat without invalidating the game

// Server -> Client
//
// assignment (unicast, first frame after a successful join):
//   playerIndex: 0 | 1
//   roomId: string
//
// state (broadcast after every accepted mutation):
//   version: number
//   state: StateSnapshot
//
// peer_left (broadcast when the other seat empties; state reverts to
// "waiting"):
//   version: number
//   state: StateSnapshot
//
// error (unicast):
//   error: string
//
// A join rejected with "room is full" is terminal: the server closes the
// socket right after the error frame.
