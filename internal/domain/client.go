package domain

// ClientID is the client-asserted session key. It is opaque to the server:
// no collision detection beyond last-join-wins.
type ClientID string
