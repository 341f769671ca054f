package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconCheck   = "" // check
	IconX       = "" // x
	IconWarning = "" // warning
	IconInfo    = "" // info
	IconArrow   = "" // arrow right
	IconCursor  = "" // chevron-right

	// Documents
	IconDocument = "" // file-pdf
	IconBookmark = "" // bookmark
	IconSearch   = "" // search
	IconTab      = "" // table
	IconWindow   = "" // window
	IconClock    = "" // clock
	IconTrash    = "" // trash
	IconDesktop  = "" // desktop
	IconConfig   = "" // config
)
