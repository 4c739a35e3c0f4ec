// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"semrec/recognizer"
)

// feedRequest is the body of POST /feed.
type feedRequest struct {
	Text      string `json:"text"`
	Cursor    *int   `json:"cursor,omitempty"`
	Composing *bool  `json:"composing,omitempty"`
}

// commitRequest is the body of POST /commit. Reason defaults to
// "manual" when omitted, since that's the only reason an external HTTP
// caller can meaningfully assert without also owning the edit surface
// that would produce enter/blur/timeout.
type commitRequest struct {
	Reason string `json:"reason"`
}

func registerRoutes(router *gin.Engine, rec *recognizer.Recognizer, hub *eventHub) {
	router.POST("/feed", func(c *gin.Context) {
		var req feedRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		rec.Feed(recognizer.Input{Text: req.Text, Cursor: req.Cursor, Composing: req.Composing})
		c.JSON(http.StatusOK, rec.State())
	})

	router.POST("/commit", func(c *gin.Context) {
		var req commitRequest
		_ = c.ShouldBindJSON(&req)
		reason := recognizer.CommitReasonManual
		switch req.Reason {
		case string(recognizer.CommitReasonEnter):
			reason = recognizer.CommitReasonEnter
		case string(recognizer.CommitReasonBlur):
			reason = recognizer.CommitReasonBlur
		case string(recognizer.CommitReasonTimeout):
			reason = recognizer.CommitReasonTimeout
		}
		rec.Commit(reason)
		c.JSON(http.StatusOK, rec.State())
	})

	router.GET("/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, rec.State())
	})

	router.GET("/events", func(c *gin.Context) {
		ch := hub.subscribe()
		defer hub.unsubscribe(ch)

		c.Stream(func(w io.Writer) bool {
			select {
			case ev, ok := <-ch:
				if !ok {
					return false
				}
				c.SSEvent(ev.Name, ev.Payload)
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	})
}
