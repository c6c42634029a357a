package kiosk

import (
	"bufio"
	"context"
	"io"
	"log"
	"strings"
)

// ReadLines feeds a keyboard-wedge reader into svc. Each non-blank line is
// one card UID. It returns when r is exhausted or ctx is done.
func ReadLines(ctx context.Context, r io.Reader, deviceID string, svc *Service) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		uid := strings.TrimSpace(sc.Text())
		if uid == "" {
			continue
		}
		tap, duplicate, err := svc.Tap(ctx, uid, deviceID)
		if err != nil {
			log.Printf("reader: tap %s: %v", uid, err)
			continue
		}
		if duplicate {
			log.Printf("reader: repeat read of %s ignored", uid)
			continue
		}
		log.Printf("reader: queued tap %s for %s", tap.ID, uid)
	}
	return sc.Err()
}
