package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/okeefe/c8/cosmac"
)

// watchROM swaps a freshly loaded machine into the runner whenever
// the ROM file changes, debouncing the burst of events editors and
// assemblers generate on save.
func watchROM(romFile string, r *cosmac.Runner) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("watch: %v", err)
		return
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(romFile)); err != nil {
		log.Printf("watch: %v", err)
		return
	}
	var reload <-chan time.Time
	for {
		select {
		case ev := <-watcher.Event:
			if ev.Name == romFile && !ev.IsAttrib() {
				reload = time.After(100 * time.Millisecond)
			}
		case err := <-watcher.Error:
			log.Printf("watch: %v", err)
		case <-reload:
			reload = nil
			rom, err := os.ReadFile(romFile)
			if err != nil {
				log.Printf("watch: %v", err)
				break
			}
			if err := r.Swap(rom); err != nil {
				log.Printf("watch: %v", err)
				return
			}
			log.Printf("watch: reloaded %s", filepath.Base(romFile))
		}
	}
}
