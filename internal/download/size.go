package download

// Size describes the byte length of a remote asset. Known is false when the
// length could not be determined.
type Size struct {
	Bytes int64
	Known bool
}

// KnownSize returns a resolved Size of n bytes.
func KnownSize(n int64) Size {
	return Size{Bytes: n, Known: true}
}

// Complete reports whether a local file of local bytes already holds the
// full remote content. An unknown remote size never counts as complete.
func (s Size) Complete(local int64) bool {
	return s.Known && local >= s.Bytes
}
