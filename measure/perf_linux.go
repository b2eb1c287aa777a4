package measure

import "golang.org/x/sys/unix"

func perfFactories() []Factory {
	factories := []Factory{
		perfFactory(taskClockInfo, Event{
			Type:   unix.PERF_TYPE_SOFTWARE,
			Config: unix.PERF_COUNT_SW_TASK_CLOCK,
		}),
	}

	return append(factories, hardwareFactories()...)
}

func perfFactory(info Info, ev Event) Factory {
	return Factory{
		Info: info,
		Open: func(opts Options) (Meter, error) {
			counter, err := OpenCounter(ev, opts)
			if err != nil {
				return nil, err
			}

			return Bind[PerfToken](NewPerf(info, counter)), nil
		},
	}
}
