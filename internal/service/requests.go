package service

import "encoding/json"

// decodeWithLegacyCourseID decodes data into dst (a pointer to an alias of the
// request type) and reports the value of the camelCase courseId key older
// clients still send.
func decodeWithLegacyCourseID(data []byte, dst interface{}) (*int64, error) {
	if err := json.Unmarshal(data, dst); err != nil {
		return nil, err
	}
	var legacy struct {
		CourseID *int64 `json:"courseId"`
	}
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, err
	}
	return legacy.CourseID, nil
}

func applyLegacyCourseID(target *int64, legacy *int64) {
	if *target == 0 && legacy != nil {
		*target = *legacy
	}
}
