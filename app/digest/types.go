package digest

// Message is one Telegram-ready HTML unit of a digest thread. The root
// message carries an empty Category.
type Message struct {
	Category string
	Label    string // localized section name, used for back-links
	Text     string
}

// Digest is one assembled issue: root message first, category replies after.
type Digest struct {
	Channel  string
	Issue    int
	Messages []Message
}

// Root returns the main digest message.
func (d Digest) Root() Message {
	return d.Messages[0]
}

// Replies returns the category section messages posted as replies to the root.
func (d Digest) Replies() []Message {
	return d.Messages[1:]
}
