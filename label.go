package main

import (
	"fmt"
	"os"

	"github.com/callebjorkell/rfid-enroll/label"
	log "github.com/sirupsen/logrus"
)

func createLabel(jobId, file string) {
	db := openDB()
	defer db.Close()

	j, err := db.ReadJob(jobId)
	if err != nil {
		log.Fatal(err)
	}
	c, err := label.FromJob(j)
	if err != nil {
		log.Fatal(err)
	}

	if file == "" {
		file = fmt.Sprintf("%v.png", j.UID)
	}
	log.Infof("Generating label for %v into %v", j.ID, file)

	f, err := os.Create(file)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	if err := label.Create(c, f); err != nil {
		log.Fatal(err)
	}
}
