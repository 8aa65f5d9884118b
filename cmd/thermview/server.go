// Copyright 2015 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net"
	"net/http"
	"sync"

	"github.com/maruel/thermview/frame"
	"github.com/maruel/thermview/gradient"
	"github.com/maruel/thermview/render"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/websocket"
	"periph.io/x/periph/conn/physic"
)

//go:embed static/root.html
var rootHTML []byte

// Metadata is sent along each image on the websocket.
type Metadata struct {
	Index int
	Min   physic.Temperature // nano-Kelvin
	Max   physic.Temperature // nano-Kelvin
}

type encodedFrame struct {
	Metadata
	PNG []byte
}

// WebServer serves the most recent frames rendered by the pipeline.
type WebServer struct {
	cond      sync.Cond
	done      bool
	display   *image.RGBA       // Optional; resize the frames to this size.
	images    [24]*encodedFrame // ~1 second worth of images.
	lastIndex int               // Index of the most recent image.
	buf       bytes.Buffer
}

// NewWebServer returns a WebServer. display may be nil.
func NewWebServer(display *image.RGBA) *WebServer {
	return &WebServer{
		cond:      *sync.NewCond(&sync.Mutex{}),
		display:   display,
		lastIndex: -1,
	}
}

// Emit implements sink.Sink.
func (s *WebServer) Emit(index int, f *frame.Frame, img *image.RGBA) error {
	var src image.Image = img
	if s.display != nil {
		render.Fit(s.display, img)
		src = s.display
	}
	s.buf.Reset()
	if err := png.Encode(&s.buf, src); err != nil {
		return err
	}
	e := &encodedFrame{
		Metadata: Metadata{
			Index: index,
			Min:   gradient.CodeToTemperature(int(f.Min)),
			Max:   gradient.CodeToTemperature(int(f.Max)),
		},
		PNG: append([]byte(nil), s.buf.Bytes()...),
	}
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	s.lastIndex = (s.lastIndex + 1) % len(s.images)
	s.images[s.lastIndex] = e
	s.cond.Broadcast()
	return nil
}

// Close wakes up and terminates all the streams.
func (s *WebServer) Close() {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	s.done = true
	s.cond.Broadcast()
}

// Handler returns the HTTP handler, wrapped with request logging.
func (s *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.root)
	mux.HandleFunc("/favicon.ico", s.still)
	mux.HandleFunc("/still.png", s.still)
	mux.Handle("/stream", websocket.Handler(s.stream))
	return loggingHandler{mux}
}

// ListenAndServe serves until ctx is canceled.
func (s *WebServer) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		s.Close()
		srv.Close()
	}()
	fmt.Printf("Listening on %d\n", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *WebServer) last() *encodedFrame {
	if s.lastIndex < 0 {
		return nil
	}
	return s.images[s.lastIndex]
}

func (s *WebServer) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	if _, err := w.Write(rootHTML); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *WebServer) still(w http.ResponseWriter, r *http.Request) {
	s.cond.L.Lock()
	e := s.last()
	s.cond.L.Unlock()
	if e == nil {
		http.Error(w, "No frame yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Write(e.PNG)
}

// stream sends all images as websocket frames.
func (s *WebServer) stream(w *websocket.Conn) {
	logrus.WithField("remote", w.Request().RemoteAddr).Debug("websocket")
	defer w.Close()
	sent := -1
	buf := &bytes.Buffer{}
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	for !s.done {
		e := s.last()
		if e == nil || e.Index == sent {
			s.cond.Wait()
			continue
		}
		sent = e.Index
		s.cond.L.Unlock()
		// Do the actual I/O without the lock.
		err := sendFrame(w, buf, e)
		s.cond.L.Lock()
		// To break out of the loop, the lock must be held.
		if err != nil {
			logrus.WithError(err).Debug("websocket")
			break
		}
	}
}

// sendFrame sends frame I (Image) then frame M (Metadata).
func sendFrame(w *websocket.Conn, buf *bytes.Buffer, e *encodedFrame) error {
	buf.Reset()
	buf.WriteString("I")
	encoder := base64.NewEncoder(base64.StdEncoding, buf)
	encoder.Write(e.PNG)
	encoder.Close()
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	buf.Reset()
	buf.WriteString("M")
	if err := json.NewEncoder(buf).Encode(&e.Metadata); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Private details.

type loggingHandler struct {
	handler http.Handler
}

type loggingResponseWriter struct {
	http.ResponseWriter
	length int
	status int
}

func (l *loggingResponseWriter) Write(data []byte) (size int, err error) {
	size, err = l.ResponseWriter.Write(data)
	l.length += size
	return
}

func (l *loggingResponseWriter) WriteHeader(status int) {
	l.ResponseWriter.WriteHeader(status)
	l.status = status
}

// Hijack is needed for websocket.
func (l *loggingResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h := l.ResponseWriter.(http.Hijacker)
	return h.Hijack()
}

// ServeHTTP logs each HTTP request in verbose mode.
func (l loggingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	lrw := &loggingResponseWriter{ResponseWriter: w, status: http.StatusOK}
	l.handler.ServeHTTP(lrw, r)
	logrus.WithFields(logrus.Fields{
		"remote": r.RemoteAddr,
		"status": lrw.status,
		"bytes":  lrw.length,
		"method": r.Method,
	}).Debug(r.RequestURI)
}
