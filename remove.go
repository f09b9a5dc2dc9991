package main

import (
	log "github.com/sirupsen/logrus"
)

func removeJob(id string) {
	db := openDB()
	defer db.Close()

	if err := db.DeleteJob(id); err != nil {
		log.Warnf("Could not remove job %v: %v", id, err.Error())
	}
}
