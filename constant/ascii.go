package constant

// AsciiArtLogo is the banner printed above the root command help.
const AsciiArtLogo = `
 _ __ ___   __ _ _ __ __ _ _   _  ___  ___
| '_ ` + "`" + ` _ \ / _` + "`" + ` | '__/ _` + "`" + ` | | | |/ _ \/ _ \
| | | | | | (_| | | | (_| | |_| |  __/  __/
|_| |_| |_|\__,_|_|  \__, |\__,_|\___|\___|
                        |_|`
