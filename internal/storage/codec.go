package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"auxesis/internal/model"
)

var (
	ErrSchemaVersionMismatch = errors.New("record schema version mismatch")
	ErrCodecVersionMismatch  = errors.New("record codec version mismatch")
)

func EncodeGenome(g model.GenomeRecord) ([]byte, error) {
	return json.Marshal(g)
}

func DecodeGenome(data []byte) (model.GenomeRecord, error) {
	var genome model.GenomeRecord
	if err := json.Unmarshal(data, &genome); err != nil {
		return model.GenomeRecord{}, err
	}
	if err := checkVersion(genome.VersionedRecord); err != nil {
		return model.GenomeRecord{}, err
	}
	return genome, nil
}

func EncodeSession(s model.SessionRecord) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeSession(data []byte) (model.SessionRecord, error) {
	var session model.SessionRecord
	if err := json.Unmarshal(data, &session); err != nil {
		return model.SessionRecord{}, err
	}
	if err := checkVersion(session.VersionedRecord); err != nil {
		return model.SessionRecord{}, err
	}
	return session, nil
}

func EncodeInnovation(r model.InnovationRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeInnovation(data []byte) (model.InnovationRecord, error) {
	var record model.InnovationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.InnovationRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.InnovationRecord{}, err
	}
	return record, nil
}

func EncodeInnovations(records []model.InnovationRecord) ([]byte, error) {
	return json.Marshal(records)
}

func DecodeInnovations(data []byte) ([]model.InnovationRecord, error) {
	var records []model.InnovationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	for _, record := range records {
		if err := checkVersion(record.VersionedRecord); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func EncodeTrial(tr model.TrialRecord) ([]byte, error) {
	return json.Marshal(tr)
}

func DecodeTrial(data []byte) (model.TrialRecord, error) {
	var trial model.TrialRecord
	if err := json.Unmarshal(data, &trial); err != nil {
		return model.TrialRecord{}, err
	}
	if err := checkVersion(trial.VersionedRecord); err != nil {
		return model.TrialRecord{}, err
	}
	return trial, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != model.CurrentSchemaVersion {
		return fmt.Errorf("%w: got %d want %d", ErrSchemaVersionMismatch, v.SchemaVersion, model.CurrentSchemaVersion)
	}
	if v.CodecVersion != model.CurrentCodecVersion {
		return fmt.Errorf("%w: got %d want %d", ErrCodecVersionMismatch, v.CodecVersion, model.CurrentCodecVersion)
	}
	return nil
}
