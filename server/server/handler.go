package server

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/derktes/ir-scrutinizer/irsignal"
	"github.com/pkg/errors"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// analysisResponse answers a published frame
type analysisResponse struct {
	CollectorID  string                `json:"collectorId"`
	ProtocolID   string                `json:"protocolID"`
	Value        string                `json:"value"`
	Segmentation irsignal.Segmentation `json:"segmentation"`
	Signal       irsignal.Signal       `json:"signal"`
	Summary      signalSummary         `json:"summary"`
}

func (s *Server) frameStreamHandler(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.cfg.Server.AllowedOrigins})
	if err != nil {
		log.Print(err)
		return
	}
	log.Printf("Accepted websocket request from %s", r.RemoteAddr)
	defer log.Printf("Closing websocket connection for %s", r.RemoteAddr)
	defer c.Close(websocket.StatusNormalClosure, "Handler exits")
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	db := <-s.dbLock
	var notifier frameNotifier = db
	subscriber := getSubscriberID(r.RemoteAddr)
	onNewFrame, err := notifier.notify(subscriber)
	s.dbLock <- db
	if err != nil {
		if s.debugMode {
			log.Print(err)
		}
		c.Close(websocket.StatusPolicyViolation, "Already subscribed")
		return
	}
	defer func() {
		if err := notifier.unNotify(subscriber); err != nil && s.debugMode {
			log.Print(err)
		}
	}()
	ctx = c.CloseRead(ctx)
	for {
		select {
		case f := <-onNewFrame:
			if err = writeFrame(ctx, c, f); err != nil {
				log.Print(err)
				return
			}
		case <-ctx.Done():
			if s.debugMode {
				log.Print(ctx.Err())
			}
			return
		}
	}
}

func (s *Server) collectorQueryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	db := <-s.dbLock
	defer func() { s.dbLock <- db }()
	collectorIDList, err := db.getCollectorIDList()
	if err != nil {
		log.Print(err)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, collectorIDList)
}

func (s *Server) frameQueryHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.publishFrame(w, r)
	case http.MethodGet:
		s.listSignals(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) publishFrame(w http.ResponseWriter, r *http.Request) {
	taggedFrameJSON, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes))
	if err != nil {
		log.Println("Error reading from request body.", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var theTaggedFrame taggedFrame
	if err := json.Unmarshal(taggedFrameJSON, &theTaggedFrame); err != nil {
		log.Println("Error unmarshaling.", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if s.debugMode {
		log.Printf("Unmarshalled -> %+v\n", theTaggedFrame)
	}
	if theTaggedFrame.CollectorID == "" {
		http.Error(w, "collectorId is required", http.StatusBadRequest)
		return
	}
	seq, err := theTaggedFrame.toSequence()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if seq.Len() > s.cfg.Server.MaxDurations {
		log.Printf("Rejecting frame from '%s': %d durations", theTaggedFrame.CollectorID, seq.Len())
		http.Error(w, fmt.Sprintf("frame has %d durations, at most %d accepted", seq.Len(), s.cfg.Server.MaxDurations),
			http.StatusRequestEntityTooLarge)
		return
	}
	analysis, err := s.analyzer.Analyze(seq)
	if err != nil {
		// zero or empty captures are rejected here, before any analysis
		log.Printf("Rejecting frame from '%s': %v", theTaggedFrame.CollectorID, err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	protocol, value, err := decodeFrame(analysis.Signal, analysis.Tolerance)
	if err != nil && s.debugMode {
		log.Printf("Frame from '%s' not decoded: %v", theTaggedFrame.CollectorID, err)
	}

	db := <-s.dbLock
	db.insert(theTaggedFrame.CollectorID, protocol, value, analysis)
	s.dbLock <- db

	writeJSON(w, http.StatusCreated, analysisResponse{
		CollectorID:  theTaggedFrame.CollectorID,
		ProtocolID:   protocol.String(),
		Value:        value,
		Segmentation: analysis.Segmentation,
		Signal:       analysis.Signal,
		Summary:      summarize(analysis),
	})
}

func (s *Server) listSignals(w http.ResponseWriter, r *http.Request) {
	db := <-s.dbLock
	defer func() { s.dbLock <- db }()
	var collectorIDList []string
	// construct signal list as response
	if c := r.URL.Query().Get("cid"); c != "" {
		collectorIDList = append(collectorIDList, c)
	} else {
		cList, err := db.getCollectorIDList()
		if err != nil {
			log.Println(err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		collectorIDList = cList
	}
	collector2protocol := make(collector2ProtocolMap)
	for _, cid := range collectorIDList {
		protocolIDList, err := db.getProtocolIDList(cid)
		if err != nil {
			log.Println(err)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		protocol2Value := make(protocol2ValueMap)
		for _, pid := range protocolIDList {
			values, err := db.getValues(cid, pid)
			if err != nil {
				log.Println(err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			value2SignalList := make(value2SignalListMap)
			for _, value := range values {
				signals, err := db.getSignalList(cid, pid, value)
				if err != nil {
					log.Println(err)
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				value2SignalList[value] = summarizeAll(signals)
			}
			protocol2Value[pid.String()] = value2SignalList
		}
		collector2protocol[cid] = protocol2Value
	}
	writeJSON(w, http.StatusOK, collector2protocol)
}

// signalPathHandler serves /ir/frame/collectorID[/protocolID[/value]]
func (s *Server) signalPathHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/ir/frame/"), "/"), "/")
	if len(parts) == 0 || parts[0] == "" || len(parts) > 3 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	db := <-s.dbLock
	defer func() { s.dbLock <- db }()
	var (
		output interface{}
		err    error
	)
	switch len(parts) {
	case 1:
		var pids []protocolID
		if pids, err = db.getProtocolIDList(parts[0]); err == nil {
			names := make([]string, len(pids))
			for i, pid := range pids {
				names[i] = pid.String()
			}
			output = names
		}
	case 2:
		var p protocolID
		p.parse(parts[1])
		output, err = db.getValues(parts[0], p)
	case 3:
		var p protocolID
		p.parse(parts[1])
		var signals signalList
		if signals, err = db.getSignalList(parts[0], p, parts[2]); err == nil {
			output = summarizeAll(signals)
		}
	}
	if err != nil {
		log.Print(err)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

func (s *Server) toleranceHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.tolerance.Load())
	case http.MethodPut:
		var req toleranceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		tol, err := s.tolerance.Update(req.apply)
		if err != nil {
			if errors.Is(err, irsignal.ErrInvalidTolerance) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Print(err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		log.Printf("Tolerance set to %v", tol)
		writeJSON(w, http.StatusOK, tol)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func summarizeAll(signals signalList) []signalSummary {
	out := make([]signalSummary, len(signals))
	for i, a := range signals {
		out[i] = summarize(a)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	output, err := json.Marshal(v)
	if err != nil {
		log.Print(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.Header().Add("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	w.Write(output)
}

func getSubscriberID(data string) string {
	h := sha1.Sum([]byte(data))
	return hex.EncodeToString(h[:])
}

func writeFrame(ctx context.Context, c *websocket.Conn, f newFrameEvent) error {
	ctx, cancelFunc := context.WithTimeout(ctx, 1*time.Second)
	defer cancelFunc()

	return wsjson.Write(ctx, c, f)
}
