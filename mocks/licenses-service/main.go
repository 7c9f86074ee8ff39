// Standalone stub of the Licencias Service HTTP API. Lets the patient portal
// and insurer validator run locally without MongoDB or the real service.
package main

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort      = "3001"
	defaultLatencyMs = "50"
)

type License struct {
	Folio     string `json:"folio"`
	PatientID string `json:"patientId"`
	DoctorID  string `json:"doctorId"`
	Diagnosis string `json:"diagnosis"`
	StartDate string `json:"startDate"`
	Days      int    `json:"days"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

var latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)

func main() {
	port := getEnv("PORT", defaultPort)

	http.HandleFunc("/health", handleHealth)
	http.HandleFunc("/licenses", handleList)
	http.HandleFunc("/licenses/", handleFolioRoutes)

	log.Printf("Mock Licencias Service starting on port %s", port)
	log.Printf("Simulated latency: %dms", latencyMs)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "OK",
		"service":   "Licencias Service (mock)",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// testLicenses contains predefined data for specific folios. These "magic"
// folios let the adapters exercise every verification outcome.
var testLicenses = map[string]func() *License{
	"L-1001": func() *License {
		return &License{
			Folio:     "L-1001",
			PatientID: "11111111-1",
			DoctorID:  "DOC123",
			Diagnosis: "Gripe común",
			StartDate: "2025-09-26",
			Days:      7,
			Status:    "issued",
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}
	},
	"L-2002": func() *License {
		return &License{
			Folio:     "L-2002",
			PatientID: "11111111-1",
			DoctorID:  "DOC456",
			Diagnosis: "Lumbago",
			StartDate: "2025-01-10",
			Days:      3,
			Status:    "expired",
			CreatedAt: time.Now().AddDate(0, -6, 0).UTC().Format(time.RFC3339),
		}
	},
	"L-3003": func() *License {
		return &License{
			Folio:     "L-3003",
			PatientID: "33333333-3",
			DoctorID:  "DOC789",
			Diagnosis: "Esguince de tobillo",
			StartDate: "2025-08-01",
			Days:      14,
			Status:    "cancelled",
			CreatedAt: time.Now().AddDate(0, -1, 0).UTC().Format(time.RFC3339),
		}
	},
}

// notFoundFolios always answer 404.
var notFoundFolios = map[string]bool{
	"L-404":   true,
	"NOEXIST": true,
}

// emptyPatients have no licenses.
var emptyPatients = map[string]bool{
	"22222222-2": true,
}

func handleList(w http.ResponseWriter, r *http.Request) {
	time.Sleep(time.Duration(latencyMs) * time.Millisecond)
	log.Printf("incoming request: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodGet {
		sendError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
		return
	}

	patientID := r.URL.Query().Get("patientId")
	if strings.TrimSpace(patientID) == "" {
		sendError(w, http.StatusBadRequest, "patientId is required and must be a non-empty string", "INVALID_PATIENT_ID")
		return
	}

	licenses := licensesForPatient(patientID)
	count := len(licenses)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(Envelope{Success: true, Data: licenses, Count: &count})

	log.Printf("patient lookup: %s -> %d license(s)", patientID, count)
}

func handleFolioRoutes(w http.ResponseWriter, r *http.Request) {
	time.Sleep(time.Duration(latencyMs) * time.Millisecond)
	log.Printf("incoming request: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodGet {
		sendError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/licenses/")
	if folio, ok := strings.CutSuffix(rest, "/verify"); ok {
		handleVerify(w, folio)
		return
	}
	handleGet(w, rest)
}

func handleGet(w http.ResponseWriter, folio string) {
	license := lookupFolio(folio)
	if license == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(Envelope{
			Success: false,
			Error:   "License not found",
			Message: "No license found with the provided folio",
		})
		log.Printf("folio not found: %s", folio)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(Envelope{Success: true, Data: license})
}

func handleVerify(w http.ResponseWriter, folio string) {
	license := lookupFolio(folio)

	status := http.StatusOK
	valid := false
	message := "License is invalid or not found"

	if license == nil {
		status = http.StatusNotFound
	} else if license.Status == "issued" {
		valid = true
		message = "License is valid"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{
		Success: true,
		Data:    map[string]bool{"valid": valid},
		Message: message,
	})

	log.Printf("verify: %s -> valid=%v", folio, valid)
}

func lookupFolio(folio string) *License {
	if notFoundFolios[folio] {
		return nil
	}
	if fn, ok := testLicenses[folio]; ok {
		return fn()
	}
	if strings.HasPrefix(folio, "LIC-") {
		l := generateLicense(folio)
		return &l
	}
	return nil
}

func licensesForPatient(patientID string) []License {
	if emptyPatients[patientID] {
		return []License{}
	}

	var licenses []License
	for _, fn := range []string{"L-1001", "L-2002", "L-3003"} {
		l := testLicenses[fn]()
		if l.PatientID == patientID {
			licenses = append(licenses, *l)
		}
	}
	if licenses == nil {
		// Deterministic data for any other patient.
		licenses = []License{generateLicense("LIC-" + hashSuffix(patientID))}
		licenses[0].PatientID = patientID
	}
	return licenses
}

// generateLicense builds deterministic but pseudo-random license data so any
// well-formed folio resolves to something plausible.
func generateLicense(folio string) License {
	hash := sha256.Sum256([]byte(folio))
	hashInt := int(hash[0])

	diagnoses := []string{"Gripe común", "Lumbago", "Bronquitis aguda", "Esguince de tobillo", "Migraña crónica"}
	doctors := []string{"DOC123", "DOC456", "DOC789", "DOC321", "DOC654"}
	statuses := []string{"issued", "issued", "issued", "expired", "cancelled"}

	start := time.Now().AddDate(0, 0, -(hashInt % 60))

	return License{
		Folio:     folio,
		PatientID: fmt.Sprintf("%08d-%d", 10000000+hashInt*131%89999999, hashInt%10),
		DoctorID:  doctors[hashInt%len(doctors)],
		Diagnosis: diagnoses[hashInt%len(diagnoses)],
		StartDate: start.Format("2006-01-02"),
		Days:      1 + hashInt%30,
		Status:    statuses[hashInt%len(statuses)],
		CreatedAt: start.UTC().Format(time.RFC3339),
	}
}

func hashSuffix(s string) string {
	hash := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%d-%X", time.Now().UnixMilli(), hash[:3])
}

func sendError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{Success: false, Error: message, Code: code})
	log.Printf("error response: %d - %s", status, message)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key, defaultValue string) int {
	value := getEnv(key, defaultValue)
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid integer value for %s, using default: %s", key, defaultValue)
		intValue, _ = strconv.Atoi(defaultValue)
	}
	return intValue
}
