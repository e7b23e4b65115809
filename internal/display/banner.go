package display

import (
	"fmt"
	"os"

	"github.com/backmassage/rasterconv/internal/term"
)

// PrintBanner prints the ASCII art banner; in the accent color when colors are enabled.
func PrintBanner() {
	fmt.Fprint(os.Stdout, term.Paint(term.Accent, `                 _
 _ __ __ _ ___| |_ ___ _ __ ___ ___  _ ____   __
| '__/ _`+"`"+` / __| __/ _ \ '__/ __/ _ \| '_ \ \ / /
| | | (_| \__ \ ||  __/ | | (_| (_) | | | \ V /
|_|  \__,_|___/\__\___|_|  \___\___/|_| |_|\_/
`))
	fmt.Fprintln(os.Stdout)
}
