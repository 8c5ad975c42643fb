package main

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

func shareURL(base string, scoreID int64) string {
	return fmt.Sprintf("%s/score/%d", strings.TrimRight(base, "/"), scoreID)
}

func qrPath(scoreID int64) string {
	return fmt.Sprintf("/api/scores/%d/qr", scoreID)
}

// handleScoreQR serves a PNG QR code that links to a submitted score.
func (h *Hub) handleScoreQR(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}
	if h.db == nil {
		http.NotFound(w, r)
		return
	}
	score, err := h.db.GetScore(id)
	if err != nil {
		log.Printf("qr: score %d: %v", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if score == nil {
		http.NotFound(w, r)
		return
	}

	png, err := qrcode.Encode(shareURL(h.baseURL, score.ID), qrcode.Medium, qrSize)
	if err != nil {
		log.Printf("qr: encode %d: %v", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(png)
}
