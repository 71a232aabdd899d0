// Package chandratime converts between the time formats used in Chandra
// mission operations.
//
// The supported formats are:
//
//	secs       Seconds since 1998-01-01T00:00:00 TT (float)      tt
//	numday     DDDD:hh:mm:ss.ss... elapsed days and time         utc
//	relday     [+-]<float> days relative to now                  utc
//	jd         Julian Day                                        utc
//	mjd        Modified Julian Day = JD - 2400000.5              utc
//	date       YYYY:DDD:hh:mm:ss.ss..                            utc
//	caldate    YYYYMonDD at hh:mm:ss.ss..                        utc
//	fits       YYYY-MM-DDThh:mm:ss.ss..                          tt
//	iso        YYYY-MM-DD hh:mm:ss.ss..                          utc
//	unix       Unix time (seconds since 1970.0)                  utc
//	greta      YYYYDDD.hhmmss[sss]                               utc
//	year_doy   YYYY:DDD                                          utc
//	year_mon_day YYYY-MM-DD                                      utc
//	frac_year  YYYY.ffffff, date as a floating point year        utc
//	plotdate   days since year 1 (matplotlib date number)        utc
//
// Each format carries a default time system, one of met (Mission Elapsed
// Time), tt (Terrestrial Time), tai (International Atomic Time), or utc.
//
// The usual entry point is the DateTime handle, which auto-detects the
// input format and converts on attribute access:
//
//	t, _ := chandratime.New(chandratime.String("1999-07-23T23:56:00"), "")
//	date, _ := t.Date() // "1999:204:23:54:55.816"
//	secs, _ := t.Secs() // 49161360.0
//
// Convert and ConvertMany expose the full conversion machinery, including
// explicit input/output time systems. ConvertVals, DateToSecs, and
// SecsToDate skip validation and format detection for bulk conversions.
package chandratime
