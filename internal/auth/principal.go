package auth

// Principal is runtime proof of authentication. It is produced only by a
// successful Directory.Login and carries a copy of the record's permission
// level taken at login time — later changes to the stored user do not
// propagate to principals already handed out.
type Principal struct {
	ID       int64
	Username string
	Level    Level
}

// Anonymous is the principal used when nobody has authenticated. Operations
// that should be callable without credentials receive Anonymous explicitly;
// there is no implicit default substitution, so a caller that passes nothing
// simply does not compile.
var Anonymous = Principal{ID: -1, Username: "anonymous", Level: LevelNone}
