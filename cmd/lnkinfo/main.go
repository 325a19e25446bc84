// Command lnkinfo decodes Windows Shortcut (.lnk) files.
package main

func main() {
	execute()
}
